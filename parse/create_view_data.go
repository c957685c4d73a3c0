package parse

// CreateViewData holds the parsed representation of a CREATE VIEW statement.
// The view definition is kept as the query it was built from; ViewDefinition
// reconstructs the canonical SQL text the view catalog persists.
type CreateViewData struct {
	viewName string
	queryData *QueryData
}

func NewCreateViewData(viewName string, queryData *QueryData) *CreateViewData {
	return &CreateViewData{
		viewName:  viewName,
		queryData: queryData,
	}
}

func (cvd *CreateViewData) ViewName() string {
	return cvd.viewName
}

func (cvd *CreateViewData) ViewDefinition() string {
	return cvd.queryData.String()
}

// Query returns the parsed query the view was defined from.
func (cvd *CreateViewData) Query() *QueryData {
	return cvd.queryData
}
