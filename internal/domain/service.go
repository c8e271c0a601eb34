package domain

// ImportService provides pure domain logic for committing imported models.
// It builds plans in scratch values; nothing touches the aggregate until Apply.
type ImportService struct{}

// NewImportService creates a new import service.
func NewImportService() *ImportService {
	return &ImportService{}
}

// ImportPlan is a fully mapped import waiting to be committed.
type ImportPlan struct {
	Model    Model
	Category *CategoryData
	Variant  Board
}

// PlanSingleModel prepares the commit of one freshly mapped model loaded from path.
// A new category is synthesized whenever the destination supports categories,
// even if the aggregate already holds some.
func (s *ImportService) PlanSingleModel(model Model, path string, board Board, caps Capabilities, categoryName string) ImportPlan {
	const slot = 0

	model.Category = 0
	model.ModelIndex = slot
	model.Filename = BoundFilename(path)
	model.Used = true

	plan := ImportPlan{
		Model:   model,
		Variant: board,
	}
	if caps.HasModelCategories {
		plan.Category = &CategoryData{Name: categoryName}
	}
	return plan
}

// Apply commits the plan to r. The model list is replaced by the imported model.
func (p ImportPlan) Apply(r *RadioData) {
	if p.Category != nil {
		r.Categories = append(r.Categories, *p.Category)
	}
	r.Models = []Model{p.Model}

	r.GeneralSettings.CurrModelFilename = p.Model.Filename
	r.GeneralSettings.CurrModelIndex = p.Model.ModelIndex
	r.GeneralSettings.Variant = p.Variant
}
