package models

import "time"

// SceneRecord is one row of the scenes table.
type SceneRecord struct {
	Name      string    `gorm:"primaryKey;column:name;type:varchar(128)"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SceneRecord) TableName() string {
	return "scenes"
}

// ElementRecord is one element of a stored scene. The root has an empty ParentID.
// A nil JoinKey marks an element that was never keyed by a join.
type ElementRecord struct {
	ID        string  `gorm:"primaryKey;column:id;type:varchar(36)"`
	SceneName string  `gorm:"column:scene_name;type:varchar(128);index:idx_scene_parent,priority:1;not null"`
	ParentID  string  `gorm:"column:parent_id;type:varchar(36);index:idx_scene_parent,priority:2"`
	Position  int     `gorm:"column:position;index:idx_scene_parent,priority:3;not null"`
	Tag       string  `gorm:"column:tag;type:varchar(64);not null"`
	Classes   string  `gorm:"column:classes;type:varchar(512)"`
	JoinKey   *string `gorm:"column:join_key;type:varchar(255)"`
	Attrs     string  `gorm:"column:attrs;type:text"`
	Text      string  `gorm:"column:text;type:text"`
}

func (ElementRecord) TableName() string {
	return "scene_elements"
}
