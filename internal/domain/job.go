package domain

import "time"

type Job struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`   // catalog_batch
	Status    string    `json:"status"` // queued, running, done, failed, canceled
	ParamsRaw string    `json:"params_json"`
	Progress  int       `json:"progress"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type JobItem struct {
	ID        int64     `json:"id"`
	JobID     int64     `json:"job_id"`
	ItemKey   string    `json:"item_key"`
	EntryID   *string   `json:"entry_id"`
	Language  *string   `json:"language"`
	Status    string    `json:"status"`
	Error     string    `json:"error"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type JobLog struct {
	ID      int64     `json:"id"`
	JobID   int64     `json:"job_id"`
	Time    time.Time `json:"ts"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// BatchItem is one transcript row of an imported batch file.
type BatchItem struct {
	Key          string   `json:"key"`
	Text         string   `json:"text"`
	LanguageHint Language `json:"language,omitempty"`
}
