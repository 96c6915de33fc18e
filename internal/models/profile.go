package models

// Profile holds the display-only demographic fields attached to a player,
// persisted locally and mirrored to the user registry.
type Profile struct {
	Fullname   string `json:"fullname,omitempty"`
	BirthDate  string `json:"birth_date,omitempty"`
	Gender     string `json:"gender,omitempty"`
	School     string `json:"school,omitempty"`
	ClassLevel string `json:"class_level,omitempty"`
	AvatarID   string `json:"avatar_id,omitempty"`
}

// Merge overlays non-empty fields of p onto the record and returns the
// result. Local profile data always wins over historical score metadata.
func (p Profile) Merge(onto ScoreRecord) ScoreRecord {
	if p.Fullname != "" {
		onto.Fullname = p.Fullname
	}
	if p.School != "" {
		onto.School = p.School
	}
	if p.ClassLevel != "" {
		onto.ClassLevel = p.ClassLevel
	}
	if p.Gender != "" {
		onto.Gender = p.Gender
	}
	if p.AvatarID != "" {
		onto.AvatarID = p.AvatarID
	}
	return onto
}
