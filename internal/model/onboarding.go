package model

// Onboarding answer options, as offered by the app's pickers.
var (
	Denominations = []string{"Orthodox", "Catholic", "Baptist", "Methodist", "Pentecostal"}
	AgeRanges     = []string{"13-17", "18-24", "25-34", "35-44", "45-54", "55+"}
	Goals         = []string{GoalStudy, GoalChallenges}
)

const (
	GoalStudy      = "study"
	GoalChallenges = "challenges"
)

type OnboardingAnswers struct {
	Denomination string `json:"denomination"`
	AgeGroup     string `json:"ageGroup"`
	Goal         string `json:"goal"`
}
