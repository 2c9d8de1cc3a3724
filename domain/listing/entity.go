// Package listing 定义分类信息后台的实体、查询条件、DTO 与查询服务。
package listing

import (
	"sndeals/validation"
)

// Category 分类
type Category struct {
	ID          int64  `db:"id" orm:"primaryKey;autoIncrement" json:"id"`
	InternalID  string `db:"internal_id" json:"internalId"`
	DisplayName string `db:"display_name" json:"displayName"`
}

func (c *Category) GetID() int64       { return c.ID }
func (c *Category) SetID(id int64)     { c.ID = id }
func (c *Category) EntityName() string { return "category" }

func (c *Category) Validate() error {
	return validation.ValidateRequired(c.DisplayName, "displayName")
}

// Post 帖子；CategoryID 为空表示未分类
type Post struct {
	ID          int64  `db:"id" orm:"primaryKey;autoIncrement" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Location    string `db:"location" json:"location"`
	Status      string `db:"status" json:"status"`
	CreatedBy   string `db:"created_by" json:"createdBy"`
	CategoryID  *int64 `db:"category_id" json:"categoryId"`
}

func (p *Post) GetID() int64       { return p.ID }
func (p *Post) SetID(id int64)     { p.ID = id }
func (p *Post) EntityName() string { return "post" }

func (p *Post) Validate() error {
	if err := validation.ValidateRequired(p.Title, "title"); err != nil {
		return err
	}
	if err := validation.ValidateRequired(p.Location, "location"); err != nil {
		return err
	}
	return validation.ValidateRequired(p.Status, "status")
}

// Comment 帖子评论
type Comment struct {
	ID      int64  `db:"id" orm:"primaryKey;autoIncrement" json:"id"`
	Comment string `db:"comment" json:"comment"`
	PostID  *int64 `db:"post_id" json:"postId"`
}

func (c *Comment) GetID() int64       { return c.ID }
func (c *Comment) SetID(id int64)     { c.ID = id }
func (c *Comment) EntityName() string { return "comment" }

func (c *Comment) Validate() error {
	return validation.ValidateRequired(c.Comment, "comment")
}

// Attachment 帖子附件，存放在 resource 表
type Attachment struct {
	ID                 int64  `db:"id" orm:"primaryKey;autoIncrement" json:"id"`
	FileName           string `db:"file_name" json:"fileName"`
	Content            []byte `db:"content" json:"content"`
	ContentContentType string `db:"content_content_type" json:"contentContentType"`
	PostID             *int64 `db:"post_id" json:"postId"`
}

func (a *Attachment) GetID() int64       { return a.ID }
func (a *Attachment) SetID(id int64)     { a.ID = id }
func (a *Attachment) EntityName() string { return "attachment" }

func (a *Attachment) Validate() error {
	return validation.ValidateRequired(a.FileName, "fileName")
}

// User 后台用户，邮箱必须属于允许的域名
type User struct {
	ID        int64  `db:"id" orm:"primaryKey;autoIncrement" json:"id"`
	Login     string `db:"login" json:"login"`
	Email     string `db:"email" json:"email"`
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
	Activated bool   `db:"activated" json:"activated"`
}

func (u *User) GetID() int64       { return u.ID }
func (u *User) SetID(id int64)     { u.ID = id }
func (u *User) EntityName() string { return "user" }

func (u *User) Validate() error {
	if err := validation.ValidateLogin(u.Login); err != nil {
		return err
	}
	return validation.ValidateEmailDomain(u.Email)
}
