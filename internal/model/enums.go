package model

type (
	Category      string
	Priority      string
	ProblemStatus string
	EstimatedTime string
	Difficulty    string
	ResourceType  string
)

const (
	CategoryInfrastructure Category = "Infrastructure"
	CategoryEnvironment    Category = "Environment"
	CategorySocial         Category = "Social"
	CategoryTechnology     Category = "Technology"
	CategoryHealth         Category = "Health"
	CategoryEducation      Category = "Education"
	CategoryOther          Category = "Other"
)

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

const (
	ProblemStatusOpen       ProblemStatus = "Open"
	ProblemStatusInProgress ProblemStatus = "In Progress"
	ProblemStatusResolved   ProblemStatus = "Resolved"
	ProblemStatusClosed     ProblemStatus = "Closed"
)

const (
	EstimatedTimeHours  EstimatedTime = "Hours"
	EstimatedTimeDays   EstimatedTime = "Days"
	EstimatedTimeWeeks  EstimatedTime = "Weeks"
	EstimatedTimeMonths EstimatedTime = "Months"
)

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

const (
	ResourceTypeDocument ResourceType = "Document"
	ResourceTypeVideo    ResourceType = "Video"
	ResourceTypeLink     ResourceType = "Link"
	ResourceTypeTool     ResourceType = "Tool"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryInfrastructure, CategoryEnvironment, CategorySocial, CategoryTechnology,
		CategoryHealth, CategoryEducation, CategoryOther:
		return true
	}
	return false
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

func (s ProblemStatus) Valid() bool {
	switch s {
	case ProblemStatusOpen, ProblemStatusInProgress, ProblemStatusResolved, ProblemStatusClosed:
		return true
	}
	return false
}

func (t EstimatedTime) Valid() bool {
	switch t {
	case EstimatedTimeHours, EstimatedTimeDays, EstimatedTimeWeeks, EstimatedTimeMonths:
		return true
	}
	return false
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceTypeDocument, ResourceTypeVideo, ResourceTypeLink, ResourceTypeTool:
		return true
	}
	return false
}
