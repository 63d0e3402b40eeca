package importer

import "sort"

// RelationSpec marks a destination field as a many-to-one reference that
// the importer resolves by natural-key lookup instead of raw id.
type RelationSpec struct {
	Table        string
	LookupColumn string
}

type FieldSpec struct {
	Name     string
	Relation *RelationSpec
}

// EntitySpec describes one importable destination table. The importer only
// ever works against these descriptors, never against runtime reflection.
type EntitySpec struct {
	Name   string
	Table  string
	Fields []FieldSpec
}

func (e EntitySpec) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Name)
	}
	return names
}

func (e EntitySpec) Field(name string) (FieldSpec, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

type Registry struct {
	entities map[string]EntitySpec
}

// NewRegistry registers every importable entity at process start. Internal
// tables (users, sessions, items, import logs) are deliberately absent.
func NewRegistry() *Registry {
	r := &Registry{entities: make(map[string]EntitySpec)}

	r.register(EntitySpec{
		Name:  "regions",
		Table: "regions",
		Fields: []FieldSpec{
			{Name: "name"},
		},
	})

	r.register(EntitySpec{
		Name:  "cities",
		Table: "cities",
		Fields: []FieldSpec{
			{Name: "name"},
			{Name: "region_id", Relation: &RelationSpec{Table: "regions", LookupColumn: "name"}},
		},
	})

	r.register(EntitySpec{
		Name:  "buildings",
		Table: "buildings",
		Fields: []FieldSpec{
			{Name: "name"},
			{Name: "code"},
			{Name: "city_id", Relation: &RelationSpec{Table: "cities", LookupColumn: "name"}},
		},
	})

	r.register(EntitySpec{
		Name:  "assets",
		Table: "assets",
		Fields: []FieldSpec{
			{Name: "asset_code"},
			{Name: "barcode"},
			{Name: "old_barcode"},
			{Name: "description"},
			{Name: "phone_number"},
			{Name: "main_category"},
			{Name: "type"},
			{Name: "sub_category"},
			{Name: "region_id", Relation: &RelationSpec{Table: "regions", LookupColumn: "name"}},
			{Name: "city_id", Relation: &RelationSpec{Table: "cities", LookupColumn: "name"}},
			{Name: "building_id", Relation: &RelationSpec{Table: "buildings", LookupColumn: "name"}},
			{Name: "status"},
			{Name: "condition"},
			{Name: "custodian_number"},
			{Name: "custodian_name"},
			{Name: "custodian_type"},
			{Name: "created_by_username"},
		},
	})

	return r
}

func (r *Registry) register(spec EntitySpec) {
	r.entities[spec.Name] = spec
}

func (r *Registry) Get(name string) (EntitySpec, bool) {
	spec, ok := r.entities[name]
	return spec, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
