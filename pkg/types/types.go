package types

// GroupReport summarizes the disk usage of one file group.
type GroupReport struct {
	// example: video
	Name string `json:"name" example:"video"`
	// Number of files in the group.
	// example: 12
	Files int `json:"files" example:"12"`
	// Total size in bytes.
	// example: 52428800
	Bytes int64 `json:"bytes" example:"52428800"`
	// Total size in the response unit.
	// example: 50
	Size float64 `json:"size" example:"50"`
	// Human readable total size.
	// example: 50 MiB
	Human string `json:"human" example:"50 MiB"`
}
