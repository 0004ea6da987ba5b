package trainingapi

// Records mirror the training backend's JSON. Several fields exist under two
// names depending on the endpoint that produced the record; both are kept and
// resolved by the callers (see content.MapCourse).

type Formation struct {
	ID int64 `json:"idFormation"`

	Title string `json:"titreFormation,omitempty"`
	Theme string `json:"theme,omitempty"`

	Description      string `json:"descriptionFormation,omitempty"`
	ThemeDescription string `json:"descriptionTheme,omitempty"`

	DurationHours    int `json:"dureeFormation,omitempty"`
	DurationHoursAlt int `json:"duree,omitempty"`

	Objectives string `json:"objectifsFormation,omitempty"`
	Level      string `json:"niveauFormation,omitempty"`
	LevelAlt   string `json:"niveau,omitempty"`

	TrainerLastName  string `json:"nomFormateur,omitempty"`
	TrainerFirstName string `json:"prenomFormateur,omitempty"`

	TypeName     string `json:"nomType,omitempty"`
	CategoryName string `json:"nomCategorie,omitempty"`

	SpecificObjectives []SpecificObjective `json:"objectifsSpecifiques,omitempty"`
}

// SpecificObjective groups day-level content under one learning goal.
type SpecificObjective struct {
	ID          int64        `json:"idObjectifSpec"`
	Title       string       `json:"titre,omitempty"`
	Description string       `json:"description,omitempty"`
	DayContents []DayContent `json:"contenus,omitempty"`
}

type DayContent struct {
	AssignedDetailIDs []int64 `json:"assignedContenuDetailleIds,omitempty"`
}

// DetailedContent is the finest-grained content record; one maps to one module.
type DetailedContent struct {
	ID                  int64   `json:"idContenuDetaille"`
	Title               string  `json:"titre,omitempty"`
	TeachingMethods     string  `json:"methodesPedagogiques,omitempty"`
	TheoreticalDuration int     `json:"dureeTheorique,omitempty"`
	PracticalDuration   int     `json:"dureePratique,omitempty"`
	Levels              []Level `json:"levels,omitempty"`
}

type Level struct {
	Files []File `json:"files,omitempty"`
}

type File struct {
	FileType string `json:"fileType,omitempty"`
	FilePath string `json:"filePath,omitempty"`
}

type LearnerClasses struct {
	LearnerID    int64   `json:"apprenantId"`
	TotalClasses int     `json:"totalClasses"`
	Classes      []Class `json:"classes"`
}

type Class struct {
	ID        int64           `json:"id"`
	Name      string          `json:"nom"`
	Code      string          `json:"code"`
	Formation *ClassFormation `json:"formation,omitempty"`
}

type ClassFormation struct {
	ID   int64  `json:"id"`
	Name string `json:"nom"`
}
