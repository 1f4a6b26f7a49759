package catalog

import (
	"context"
	"fmt"
)

type ViewState int

const (
	StateIdle ViewState = iota
	StateLoading
	StateFiltered
	StateSorted
)

func (s ViewState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateFiltered:
		return "filtered"
	case StateSorted:
		return "sorted"
	default:
		return fmt.Sprintf("ViewState(%d)", int(s))
	}
}

// Lister is the read side of the inventory.
type Lister interface {
	List(ctx context.Context) ([]Product, error)
}

// CategoryView is the state of one category page: the products of the
// chosen category ordered by the chosen criterion. The criterion survives a
// category change. A CategoryView is not safe for concurrent use.
type CategoryView struct {
	source Lister

	state     ViewState
	category  string
	criterion string
	products  []Product
}

func NewCategoryView(source Lister) *CategoryView {
	return &CategoryView{source: source, criterion: DefaultSort}
}

// Open loads category and orders it by the current criterion.
func (v *CategoryView) Open(ctx context.Context, category string) error {
	v.state = StateLoading
	v.category = category

	all, err := v.source.List(ctx)
	if err != nil {
		v.state = StateIdle
		v.products = nil
		return fmt.Errorf("load category %q: %w", category, err)
	}
	v.products = FilterByCategory(all, category)
	v.state = StateFiltered

	v.Sort(v.criterion)
	return nil
}

// Sort reorders the current products. It does nothing before Open.
func (v *CategoryView) Sort(criterion string) {
	if v.state != StateFiltered && v.state != StateSorted {
		return
	}
	v.criterion = criterion
	v.products = SortBy(v.products, criterion)
	v.state = StateSorted
}

func (v *CategoryView) State() ViewState { return v.state }

func (v *CategoryView) Category() string { return v.category }

func (v *CategoryView) Criterion() string { return v.criterion }

func (v *CategoryView) Label() string { return CriterionLabel(v.criterion) }

func (v *CategoryView) Products() []Product { return cloneProducts(v.products) }
