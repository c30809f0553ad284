package config

// Kind identifies an action variant.
type Kind int

const (
	// KindGet fetches a single record by id.
	KindGet Kind = iota
	// KindGetList fetches the whole collection.
	KindGetList
	// KindCreate creates a record.
	KindCreate
	// KindUpdate partially updates a record.
	KindUpdate
	// KindDelete removes a record.
	KindDelete
	// KindCustom is a caller-declared action with no collection mutation.
	KindCustom
)

// numStandard is the number of standard (non-custom) kinds.
const numStandard = int(KindCustom)

var kindNames = [...]string{
	KindGet:     "get",
	KindGetList: "getList",
	KindCreate:  "create",
	KindUpdate:  "update",
	KindDelete:  "delete",
	KindCustom:  "custom",
}

// String returns the canonical action name of k.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsStandard reports whether k is one of the five standard actions.
func (k Kind) IsStandard() bool {
	return k >= KindGet && k < KindCustom
}

// StandardKinds returns the standard kinds in declaration order.
func StandardKinds() []Kind {
	return []Kind{KindGet, KindGetList, KindCreate, KindUpdate, KindDelete}
}

// ParseKind maps a standard action name to its Kind.
func ParseKind(name string) (Kind, bool) {
	for _, k := range StandardKinds() {
		if kindNames[k] == name {
			return k, true
		}
	}
	return 0, false
}

// Ref names one action of a store. Name is only meaningful for custom actions.
type Ref struct {
	Kind Kind
	Name string
}

// Standard action references.
var (
	Get     = Ref{Kind: KindGet}
	GetList = Ref{Kind: KindGetList}
	Create  = Ref{Kind: KindCreate}
	Update  = Ref{Kind: KindUpdate}
	Delete  = Ref{Kind: KindDelete}
)

// Custom references the custom action called name.
func Custom(name string) Ref {
	return Ref{Kind: KindCustom, Name: name}
}

// RefOf resolves an action name: standard names map to their standard
// reference, anything else to a custom reference.
func RefOf(name string) Ref {
	if k, ok := ParseKind(name); ok {
		return Ref{Kind: k}
	}
	return Custom(name)
}

// String returns the name that keys the action's loading state.
func (r Ref) String() string {
	if r.Kind == KindCustom {
		return r.Name
	}
	return r.Kind.String()
}
