package model

// LibraryActivity is a five-minute activity from the content library.
type LibraryActivity struct {
	Key         string `yaml:"key" json:"activity_key"`
	Title       string `yaml:"title" json:"title"`
	Type        string `yaml:"type" json:"type"`
	Category    string `yaml:"category" json:"category"`
	Duration    int    `yaml:"duration" json:"duration_minutes"`
	Order       int    `yaml:"order" json:"order"`
	Description string `yaml:"description" json:"description"`
	HTMLContent string `yaml:"-" json:"html_content"`
}
