package odm

// Cond is a single field condition.
type Cond struct {
	Field string
	Value any
}

// Filter selects documents. Fields are named by their stored (json/bson) key.
// A nil *Filter matches everything.
type Filter struct {
	Equals       []Cond
	Contains     []Cond
	SearchTerm   string
	SearchFields []string
}

func Where(field string, value any) *Filter {
	return (&Filter{}).And(field, value)
}

func ByID(id string) *Filter {
	return Where("id", id)
}

// And adds an equality condition.
func (f *Filter) And(field string, value any) *Filter {
	f.Equals = append(f.Equals, Cond{Field: field, Value: value})
	return f
}

// ArrayContains matches documents whose array field holds value.
func (f *Filter) ArrayContains(field string, value any) *Filter {
	f.Contains = append(f.Contains, Cond{Field: field, Value: value})
	return f
}

// Search matches documents where any of fields contains term, case-insensitive.
// An empty term is ignored.
func (f *Filter) Search(term string, fields ...string) *Filter {
	if term == "" || len(fields) == 0 {
		return f
	}
	f.SearchTerm = term
	f.SearchFields = fields
	return f
}

func (f *Filter) IsEmpty() bool {
	return f == nil || (len(f.Equals) == 0 && len(f.Contains) == 0 && f.SearchTerm == "")
}

type SortField struct {
	Field string
	Desc  bool
}

type FindOptions struct {
	Sort  []SortField
	Skip  int64
	Limit int64
}

func Asc(field string) SortField  { return SortField{Field: field} }
func Desc(field string) SortField { return SortField{Field: field, Desc: true} }

// Page returns options for the 1-based page of the given size.
func Page(page, size int, sort ...SortField) FindOptions {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	return FindOptions{
		Sort:  sort,
		Skip:  int64((page - 1) * size),
		Limit: int64(size),
	}
}
