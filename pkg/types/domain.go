package types

// Channel describes one notification channel and its receivers.
type Channel struct {
	// Rendered channel key.
	// example: post:pntools/internal/filemanager:Manager:Refresh
	Key string `json:"key" example:"post:pntools/internal/filemanager:Manager:Refresh"`
	// Decomposed key.
	Parts KeyParts `json:"parts"`
	// Connected receivers in registration order.
	Receivers []Receiver `json:"receivers"`
}

// KeyParts are the components of a channel key.
type KeyParts struct {
	// example: post
	Timing string `json:"timing" example:"post"`
	// example: pntools/internal/filemanager
	Module string `json:"module" example:"pntools/internal/filemanager"`
	// example: Manager
	Class string `json:"class" example:"Manager"`
	// example: Refresh
	Attr string `json:"attr" example:"Refresh"`
	// Either method or property.
	// example: method
	Kind string `json:"kind" example:"method"`
	// Instance identifier; empty for class-wide channels.
	// example: lab-a
	Instance string `json:"instance,omitempty" example:"lab-a"`
}

// Receiver identifies a connected listener.
type Receiver struct {
	// function, closure, method or method(owner).
	// example: function
	Kind string `json:"kind" example:"function"`
	// example: logRefresh
	Name string `json:"name" example:"logRefresh"`
	// example: main
	Package string `json:"package" example:"main"`
}
