package db

import "time"

// NewsRecord maps cn_company_news. Grade and Reason are set together by the
// scoring pass or both stay null; a non-null Grade marks the record as
// processed and excludes it from future scoring passes.
type NewsRecord struct {
	ID                 int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Symbol             string     `gorm:"column:symbol;type:text;not null;index" json:"symbol"`
	NewsTitle          string     `gorm:"column:news_title;type:text;not null" json:"news_title"`
	NewsContent        string     `gorm:"column:news_content;type:text;not null;default:''" json:"news_content"`
	PublishedAt        *time.Time `gorm:"column:published_at;type:timestamptz;index" json:"published_at,omitempty"`
	Source             string     `gorm:"column:source;type:text;not null;default:''" json:"source"`
	NewsURL            *string    `gorm:"column:news_url;type:text" json:"news_url,omitempty"`
	Language           string     `gorm:"column:language;type:text;not null;default:''" json:"language,omitempty"`
	Grade              *float64   `gorm:"column:grade;type:double precision" json:"grade,omitempty"`
	Reason             *string    `gorm:"column:reason;type:text" json:"reason,omitempty"`
	MktCapChange1Month *string    `gorm:"column:mkt_cap_change_1_month;type:text" json:"mkt_cap_change_1_month,omitempty"`
	CreatedAt          time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()" json:"created_at"`
}

func (NewsRecord) TableName() string { return "cn_company_news" }

// CompanyListing maps company_list, the symbol validity lookup table.
type CompanyListing struct {
	Symbol      string `gorm:"column:symbol;type:text;primaryKey" json:"symbol"`
	Description string `gorm:"column:description;type:text;not null;default:''" json:"description"`
	Exchange    string `gorm:"column:exchange;type:text;not null;default:''" json:"exchange"`
}

func (CompanyListing) TableName() string { return "company_list" }

func autoMigrateModels() []any {
	return []any{
		&NewsRecord{},
		&CompanyListing{},
	}
}
