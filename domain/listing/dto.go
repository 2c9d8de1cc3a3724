package listing

// PostDTO 帖子对外表示，CategoryDisplayName 只读
type PostDTO struct {
	ID                  int64  `json:"id,omitempty" yaml:"id"`
	Title               string `json:"title" yaml:"title"`
	Description         string `json:"description,omitempty" yaml:"description"`
	Location            string `json:"location" yaml:"location"`
	Status              string `json:"status" yaml:"status"`
	CreatedBy           string `json:"createdBy,omitempty" yaml:"createdBy"`
	CategoryID          *int64 `json:"categoryId,omitempty" yaml:"categoryId"`
	CategoryDisplayName string `json:"categoryDisplayName,omitempty" yaml:"-"`
}

func (d *PostDTO) GetID() int64 { return d.ID }

// CategoryDTO 分类对外表示
type CategoryDTO struct {
	ID          int64  `json:"id,omitempty" yaml:"id"`
	InternalID  string `json:"internalId,omitempty" yaml:"internalId"`
	DisplayName string `json:"displayName" yaml:"displayName"`
}

func (d *CategoryDTO) GetID() int64 { return d.ID }

// CommentDTO 评论对外表示，PostTitle 只读
type CommentDTO struct {
	ID        int64  `json:"id,omitempty" yaml:"id"`
	Comment   string `json:"comment" yaml:"comment"`
	PostID    *int64 `json:"postId,omitempty" yaml:"postId"`
	PostTitle string `json:"postTitle,omitempty" yaml:"-"`
}

func (d *CommentDTO) GetID() int64 { return d.ID }

// AttachmentDTO 附件对外表示，Content 在 JSON 中为 base64
type AttachmentDTO struct {
	ID                 int64  `json:"id,omitempty" yaml:"id"`
	FileName           string `json:"fileName" yaml:"fileName"`
	Content            []byte `json:"content,omitempty" yaml:"content"`
	ContentContentType string `json:"contentContentType,omitempty" yaml:"contentContentType"`
	PostID             *int64 `json:"postId,omitempty" yaml:"postId"`
}

func (d *AttachmentDTO) GetID() int64 { return d.ID }
