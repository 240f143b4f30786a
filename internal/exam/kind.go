// Package exam holds the exam catalogue and the navigation token codec.
package exam

// Kind identifies one of the supported exam categories.
type Kind int

const (
	// KindUnknown is the zero value and never appears in a valid token.
	KindUnknown Kind = iota
	// Main is JEE Main.
	Main
	// Advanced is JEE Advanced.
	Advanced
)

// Kinds lists the supported exams in menu order.
var Kinds = []Kind{Main, Advanced}

// Token returns the canonical token form of the exam, e.g. "exam_main".
func (k Kind) Token() string {
	switch k {
	case Main:
		return "exam_main"
	case Advanced:
		return "exam_adv"
	}
	return ""
}

// Folder returns the image archive folder of the exam.
func (k Kind) Folder() string {
	switch k {
	case Main:
		return "jee_main"
	case Advanced:
		return "jee_adv"
	}
	return ""
}

// DisplayName returns the human readable exam name.
func (k Kind) DisplayName() string {
	switch k {
	case Main:
		return "JEE Main"
	case Advanced:
		return "JEE Advanced"
	}
	return "Unknown"
}

// Short returns the argument form used by the /q command.
func (k Kind) Short() string {
	switch k {
	case Main:
		return "main"
	case Advanced:
		return "adv"
	}
	return ""
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if s := k.Short(); s != "" {
		return s
	}
	return "unknown"
}

// KindFromToken maps "exam_main"/"exam_adv" to a Kind.
func KindFromToken(token string) (Kind, bool) {
	for _, k := range Kinds {
		if k.Token() == token {
			return k, true
		}
	}
	return KindUnknown, false
}

// ParseKind accepts the short /q argument forms ("main", "adv", "advanced").
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "main", "m":
		return Main, true
	case "adv", "advanced", "a":
		return Advanced, true
	}
	return KindUnknown, false
}
