package domain

import "time"

type Template struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"` // translate_single | extract_product
	Role      string    `json:"role"` // system | user
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CacheEntry struct {
	ID          int64     `json:"id"`
	SourceText  string    `json:"source_text"`
	SrcLang     string    `json:"src_lang"`
	TgtLang     string    `json:"tgt_lang"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	Translation string    `json:"translation"`
	CreatedAt   time.Time `json:"created_at"`
}
