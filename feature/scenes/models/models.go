package models

import (
	"time"

	"datajoin/core/dataset"
	"datajoin/core/join"
)

// JoinRequest describes one data join against a scene.
type JoinRequest struct {
	// Parent is the id of the element whose children are joined. Empty means the root.
	Parent string `json:"parent,omitempty"`
	// Selector filters the parent's children (e.g. "circle.dot").
	Selector string `json:"selector,omitempty"`
	// Tag of entering elements. Defaults to the selector's tag.
	Tag string `json:"tag,omitempty"`
	// Classes added to entering elements on top of the selector's classes.
	Classes []string `json:"classes,omitempty"`
	// Key is the record field used as join key. Empty joins by index.
	Key string `json:"key,omitempty"`
	// Strict rejects duplicate keys. Nil uses the server default.
	Strict *bool `json:"strict,omitempty"`
	// DryRun computes the partition without touching the scene.
	DryRun bool `json:"dry_run,omitempty"`
	// SkipEnter leaves entering items without elements.
	SkipEnter bool `json:"skip_enter,omitempty"`
	// SkipExit keeps exiting elements in place.
	SkipExit bool `json:"skip_exit,omitempty"`
	// Attrs maps element attributes to record fields.
	Attrs map[string]string `json:"attrs,omitempty"`
	// Text is the record field copied into the element text.
	Text string `json:"text,omitempty"`
	// Items are inline records. Mutually exclusive with Dataset.
	Items []dataset.Record `json:"items,omitempty"`
	// Dataset is an object name in the datasets folder.
	Dataset string `json:"dataset,omitempty"`
}

// JoinReport is the outcome of a join.
type JoinReport struct {
	Scene   string       `json:"scene"`
	Summary join.Summary `json:"summary"`
	// Entered, Updated and Exited list join keys in item or tree order.
	Entered []string `json:"entered"`
	Updated []string `json:"updated"`
	Exited  []string `json:"exited"`
	// Dropped lists keys of items displaced by a later duplicate.
	Dropped []string `json:"dropped"`
	DryRun  bool     `json:"dry_run"`
	// Coalesced is set when the request was superseded by a newer one
	// and this report belongs to that newer join.
	Coalesced bool `json:"coalesced"`
	// Deleted is set when the superseding request deleted the scene.
	Deleted bool `json:"deleted,omitempty"`
	// Nodes is the element count of the scene after the join.
	Nodes int `json:"nodes"`
}

// SceneInfo summarizes a stored scene.
type SceneInfo struct {
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
	Elements  int64     `json:"elements"`
}

// ExportResult reports where a scene snapshot was written.
type ExportResult struct {
	Scene  string `json:"scene"`
	Bucket string `json:"bucket"`
	Object string `json:"object"`
	Bytes  int    `json:"bytes"`
}
