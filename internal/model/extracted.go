package model

// ExtractedPlan holds the structured fields recovered from an uploaded
// report by the document-extraction collaborator. A zero ProjectName means
// no project was extracted.
type ExtractedPlan struct {
	ProjectName   string  `json:"Project_Name"`
	Category      string  `json:"Category"`
	EstimatedCost float64 `json:"Estimated_Cost"`
	StartYear     int     `json:"Start_Year"`
	EndYear       int     `json:"End_Year"`
	DurationYears float64 `json:"Duration"`
}

// Empty reports whether extraction produced nothing usable.
func (e ExtractedPlan) Empty() bool {
	return e.ProjectName == ""
}

// Duration returns the declared duration, deriving it from the year range
// when absent.
func (e ExtractedPlan) Duration() float64 {
	if e.DurationYears > 0 {
		return e.DurationYears
	}
	if e.EndYear > e.StartYear {
		return float64(e.EndYear - e.StartYear)
	}
	return 0
}
