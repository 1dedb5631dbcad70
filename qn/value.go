package qn

// Value is the sum type carried by attributes and bindings: a qualified
// name, a typed literal, or an untyped plain string. Only one of the three
// fields is meaningful per Kind.
type Kind int

const (
	KindQN Kind = iota
	KindLiteral
	KindPlain
)

// Value is structurally comparable (usable as a map key) so the matcher can
// memoise and the tests can assert equality with plain ==.
type Value struct {
	Kind     Kind
	QN       QN     // meaningful when Kind == KindQN
	Text     string // meaningful when Kind == KindLiteral or KindPlain
	Datatype QN     // meaningful when Kind == KindLiteral and a datatype was given; zero value otherwise
	HasType  bool
}

// NewQNValue wraps a QN as a Value.
func NewQNValue(q QN) Value { return Value{Kind: KindQN, QN: q} }

// NewLiteral wraps a typed literal.
func NewLiteral(text string, datatype QN) Value {
	return Value{Kind: KindLiteral, Text: text, Datatype: datatype, HasType: true}
}

// NewPlain wraps an untyped string literal.
func NewPlain(text string) Value { return Value{Kind: KindPlain, Text: text} }

// IsVariable reports whether the value is a QN drawn from var:/vargen:.
func (v Value) IsVariable() bool {
	return v.Kind == KindQN && v.QN.IsVariable()
}

// String renders a human-readable form, used in error messages and tests.
func (v Value) String() string {
	switch v.Kind {
	case KindQN:
		return v.QN.String()
	case KindLiteral:
		if v.HasType {
			return v.Text + "^^" + v.Datatype.String()
		}
		return v.Text
	case KindPlain:
		return v.Text
	default:
		return ""
	}
}
