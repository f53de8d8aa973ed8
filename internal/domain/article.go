package domain

// Article 用户撰写的文章（编辑部静态文章不在此存储）
type Article struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Summary       string   `json:"summary"`
	Content       string   `json:"content"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	Author        string   `json:"author"`
	Date          string   `json:"date"` // YYYY-MM-DD
	IsUserCreated bool     `json:"isUserCreated"`
}

func (a Article) Clone() Article {
	a.Tags = cloneStrings(a.Tags)
	return a
}
