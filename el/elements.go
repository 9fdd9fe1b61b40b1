package el

// Multi-arg element helpers. These are a convenience over El — as spec.md
// §4.J notes, they are not part of the data model.

func Div(items ...*Node) *Node     { return El("div", items...) }
func Span(items ...*Node) *Node    { return El("span", items...) }
func P(items ...*Node) *Node       { return El("p", items...) }
func Button(items ...*Node) *Node  { return El("button", items...) }
func Input(items ...*Node) *Node   { return El("input", items...) }
func Label(items ...*Node) *Node   { return El("label", items...) }
func Ul(items ...*Node) *Node      { return El("ul", items...) }
func Li(items ...*Node) *Node      { return El("li", items...) }
func H1(items ...*Node) *Node      { return El("h1", items...) }
func H2(items ...*Node) *Node      { return El("h2", items...) }
func Form(items ...*Node) *Node    { return El("form", items...) }
func A(items ...*Node) *Node       { return El("a", items...) }
func Section(items ...*Node) *Node { return El("section", items...) }
