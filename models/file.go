package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// File is the authoritative record of one uploaded file. OriginalName is
// user-supplied and not unique; StoredName is the generated on-disk token and
// is never derived from user input beyond the extension.
type File struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	OriginalName string    `json:"original_name" gorm:"type:varchar(255);not null"`
	StoredName   string    `json:"stored_name" gorm:"type:varchar(255);not null;uniqueIndex"`
	UploadDate   time.Time `json:"upload_date"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	IsVisible    bool      `json:"is_visible" gorm:"not null;default:true"`
}

// FileListItem is the row shape of GET /files.
type FileListItem struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	UploadDate time.Time `json:"uploadDate"`
}

// AdminFileItem is the row shape of GET /all-files. Visible is serialized as
// 0/1 because the management UI compares it against select option values.
type AdminFileItem struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	UploadDate time.Time `json:"uploadDate"`
	Visible    int       `json:"visible"`
}

// Flag is a bool that unmarshals from JSON booleans, numbers, or the "0"/"1"
// strings the management page sends.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = n != 0
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := strconv.ParseBool(s)
		if err != nil {
			if n, nerr := strconv.Atoi(s); nerr == nil {
				*f = n != 0
				return nil
			}
			return fmt.Errorf("invalid flag value %q", s)
		}
		*f = Flag(v)
		return nil
	}
	return fmt.Errorf("invalid flag value %s", string(data))
}

func (f Flag) Bool() bool { return bool(f) }
