package bsonskema

// AnyModel identifies a family of options regardless of its payload type.
// Models are compared by identity.
type AnyModel interface {
	ModelName() string
}

// Model identifies a family of options whose payload has type V, such as
// "required" (bool) or "index" (IndexHint). A schema node can carry options of
// any number of models; a traversal collects the ones of a single model.
type Model[V any] struct{ name string }

// NewModel returns a new, distinct model.
func NewModel[V any](name string) *Model[V] { return &Model[V]{name: name} }

func (m *Model[V]) ModelName() string { return m.name }

// OptionData is one collected option: the model it belongs to, the pathname of
// the schema node it was attached to, and its payload.
type OptionData struct {
	Model AnyModel
	Path  string
	Value any
}

// Option is an instance option: its payload is computed from a concrete value,
// the root value being traversed and the value's pathname.
type Option[T any] interface {
	Model() AnyModel
	Obtain(root any, pathname string, instance T) (OptionData, bool)
}

// StaticOption is a shape-level option that needs no instance.
type StaticOption interface {
	Model() AnyModel
	ObtainStatic(pathname string) (OptionData, bool)
}

type instanceOption[T, V any] struct {
	m  *Model[V]
	fn func(root any, pathname string, instance T) (V, bool)
}

func (o instanceOption[T, V]) Model() AnyModel { return o.m }

func (o instanceOption[T, V]) Obtain(root any, pathname string, instance T) (OptionData, bool) {
	v, ok := o.fn(root, pathname, instance)
	if !ok {
		return OptionData{}, false
	}
	return OptionData{Model: o.m, Path: pathname, Value: v}, true
}

// NewOption returns an instance option of model m. fn may decline by returning
// ok=false, in which case nothing is collected.
func NewOption[T, V any](m *Model[V], fn func(root any, pathname string, instance T) (V, bool)) Option[T] {
	return instanceOption[T, V]{m: m, fn: fn}
}

type staticOption[V any] struct {
	m *Model[V]
	v V
}

func (o staticOption[V]) Model() AnyModel { return o.m }

func (o staticOption[V]) ObtainStatic(pathname string) (OptionData, bool) {
	return OptionData{Model: o.m, Path: pathname, Value: o.v}, true
}

// NewStaticOption returns a static option of model m carrying v.
func NewStaticOption[V any](m *Model[V], v V) StaticOption { return staticOption[V]{m: m, v: v} }

// matches reports whether an option of model have is requested by want. A nil
// want selects every model.
func matches(want, have AnyModel) bool { return want == nil || want == have }

// CollectOptions evaluates the instance options of model m in order.
func CollectOptions[T any](m AnyModel, opts []Option[T], root any, pathname string, instance T) []OptionData {
	var out []OptionData
	for _, o := range opts {
		if !matches(m, o.Model()) {
			continue
		}
		if d, ok := o.Obtain(root, pathname, instance); ok {
			out = append(out, d)
		}
	}
	return out
}

// CollectStaticOptions evaluates the static options of model m in order.
func CollectStaticOptions(m AnyModel, opts []StaticOption, pathname string) []OptionData {
	var out []OptionData
	for _, o := range opts {
		if !matches(m, o.Model()) {
			continue
		}
		if d, ok := o.ObtainStatic(pathname); ok {
			out = append(out, d)
		}
	}
	return out
}

// Visited is the set of schema nodes on the current static options path, from
// the root down to the node being traversed. Keys are compared by identity, so
// only pointer schemas may be used. A schema leaves the set once its subtree is
// done, so a schema reached by two sibling fields reports its options at both
// paths while a schema that contains itself stops at the recursive edge.
type Visited struct {
	seen map[any]struct{}
}

// NewVisited returns an empty set.
func NewVisited() *Visited { return &Visited{seen: map[any]struct{}{}} }

// Enter records s and reports whether it was new.
func (v *Visited) Enter(s any) bool {
	if v.seen == nil {
		v.seen = map[any]struct{}{}
	}
	if _, ok := v.seen[s]; ok {
		return false
	}
	v.seen[s] = struct{}{}
	return true
}

// Leave removes s, ending its subtree.
func (v *Visited) Leave(s any) { delete(v.seen, s) }

// Has reports whether s is on the current path.
func (v *Visited) Has(s any) bool {
	_, ok := v.seen[s]
	return ok
}

// Len returns the depth of the current path in schemas.
func (v *Visited) Len() int { return len(v.seen) }

// Values extracts the payloads of model m from collected data.
func Values[V any](m *Model[V], data []OptionData) []V {
	var out []V
	for _, d := range data {
		if d.Model != AnyModel(m) {
			continue
		}
		if v, ok := d.Value.(V); ok {
			out = append(out, v)
		}
	}
	return out
}

// ByPath groups the payloads of model m by pathname.
func ByPath[V any](m *Model[V], data []OptionData) map[string][]V {
	out := map[string][]V{}
	for _, d := range data {
		if d.Model != AnyModel(m) {
			continue
		}
		if v, ok := d.Value.(V); ok {
			out[d.Path] = append(out[d.Path], v)
		}
	}
	return out
}

// IndexHint describes an index a persistence layer should maintain for a path.
type IndexHint struct {
	Unique bool
}

// Well-known models.
var (
	// Required marks a field that must be present in stored documents.
	Required = NewModel[bool]("required")
	// Index requests an index on a field.
	Index = NewModel[IndexHint]("index")
	// Validation carries instance validation failures; a nil payload is never
	// collected.
	Validation = NewModel[error]("validation")
)

// StaticOptions collects the static options of model m from the root schema s.
func StaticOptions[T any](s ElementSchema[T], m AnyModel) []OptionData {
	return s.ObtainStaticOptions(m, "", NewVisited())
}

// InstanceOptions collects the instance options of model m for the root value v.
func InstanceOptions[T any](s ElementSchema[T], m AnyModel, v T) []OptionData {
	return s.ObtainOptions(m, v, "", v)
}

// CheckInstance runs the Validation options of s against v and returns the
// failures as Issues, or nil.
func CheckInstance[T any](s ElementSchema[T], v T) error {
	var iss Issues
	for _, d := range InstanceOptions(s, Validation, v) {
		err, _ := d.Value.(error)
		if err == nil {
			continue
		}
		iss = AppendIssues(iss, ParsePath(d.Path).Issue(CodeValidation, err.Error(), err))
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// StaticValues collects the payloads of static model m from the root schema s.
func StaticValues[T any, V any](s ElementSchema[T], m *Model[V]) []V {
	return Values(m, StaticOptions[T](s, m))
}
