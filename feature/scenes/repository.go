package scenes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"datajoin/core/scene"
	"datajoin/feature/scenes/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultBatchSize = 500

// Repository stores scenes in the scenes and scene_elements tables.
type Repository struct {
	db        *gorm.DB
	batchSize int
}

// NewRepository creates a repository. A non-positive batchSize uses the default.
func NewRepository(db *gorm.DB, batchSize int) *Repository {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Repository{db: db, batchSize: batchSize}
}

// Migrate creates or updates the scene tables.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&models.SceneRecord{}, &models.ElementRecord{})
}

// Save replaces the stored scene with s in a single transaction.
func (r *Repository) Save(ctx context.Context, s *scene.Scene) error {
	records, err := flatten(s)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := models.SceneRecord{Name: s.Name, UpdatedAt: time.Now()}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to upsert scene %s: %w", s.Name, err)
		}
		if err := tx.Where("scene_name = ?", s.Name).Delete(&models.ElementRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear elements of %s: %w", s.Name, err)
		}
		if err := tx.CreateInBatches(records, r.batchSize).Error; err != nil {
			return fmt.Errorf("failed to insert elements of %s: %w", s.Name, err)
		}
		return nil
	})
}

// Load rebuilds the named scene.
func (r *Repository) Load(ctx context.Context, name string) (*scene.Scene, error) {
	db := r.db.WithContext(ctx)

	var row models.SceneRecord
	if err := db.Where("name = ?", name).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSceneNotFound
		}
		return nil, fmt.Errorf("failed to load scene %s: %w", name, err)
	}

	var records []models.ElementRecord
	if err := db.Where("scene_name = ?", name).Order("parent_id, position").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load elements of %s: %w", name, err)
	}
	return unflatten(name, records)
}

// Delete removes the scene and its elements.
func (r *Repository) Delete(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scene_name = ?", name).Delete(&models.ElementRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete elements of %s: %w", name, err)
		}
		res := tx.Where("name = ?", name).Delete(&models.SceneRecord{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete scene %s: %w", name, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrSceneNotFound
		}
		return nil
	})
}

// List returns every stored scene with its element count.
func (r *Repository) List(ctx context.Context) ([]models.SceneInfo, error) {
	var infos []models.SceneInfo
	err := r.db.WithContext(ctx).
		Table("scenes").
		Select("scenes.name AS name, scenes.updated_at AS updated_at, COUNT(scene_elements.id) AS elements").
		Joins("LEFT JOIN scene_elements ON scene_elements.scene_name = scenes.name").
		Group("scenes.name, scenes.updated_at").
		Order("scenes.name").
		Scan(&infos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}
	return infos, nil
}

func flatten(s *scene.Scene) ([]models.ElementRecord, error) {
	records := make([]models.ElementRecord, 0, s.Len())

	var visit func(e *scene.Element, parentID string, position int) error
	visit = func(e *scene.Element, parentID string, position int) error {
		rec := models.ElementRecord{
			ID:        e.ID,
			SceneName: s.Name,
			ParentID:  parentID,
			Position:  position,
			Tag:       e.Tag,
			Classes:   strings.Join(e.Classes, " "),
			Text:      e.Text,
		}
		if e.Keyed {
			key := e.Key
			rec.JoinKey = &key
		}
		if len(e.Attrs) > 0 {
			attrs, err := json.Marshal(e.Attrs)
			if err != nil {
				return fmt.Errorf("failed to encode attrs of %s: %w", e.ID, err)
			}
			rec.Attrs = string(attrs)
		}
		records = append(records, rec)

		for i, child := range e.Children {
			if err := visit(child, e.ID, i); err != nil {
				return err
			}
		}
		return nil
	}

	var err error
	s.Walk(func(e *scene.Element, depth int) {
		if depth == 0 && err == nil {
			err = visit(e, "", 0)
		}
	})
	return records, err
}

func unflatten(name string, records []models.ElementRecord) (*scene.Scene, error) {
	byID := make(map[string]*scene.Element, len(records))
	for _, rec := range records {
		e := &scene.Element{
			ID:    rec.ID,
			Tag:   rec.Tag,
			Text:  rec.Text,
			Attrs: make(map[string]string),
		}
		if rec.Classes != "" {
			e.Classes = strings.Fields(rec.Classes)
		}
		if rec.JoinKey != nil {
			e.Key = *rec.JoinKey
			e.Keyed = true
		}
		if rec.Attrs != "" {
			if err := json.Unmarshal([]byte(rec.Attrs), &e.Attrs); err != nil {
				return nil, fmt.Errorf("failed to decode attrs of %s: %w", rec.ID, err)
			}
		}
		byID[rec.ID] = e
	}

	var root *scene.Element
	// Records are ordered by parent and position, so appending keeps sibling order
	for _, rec := range records {
		e := byID[rec.ID]
		if rec.ParentID == "" {
			if root != nil {
				return nil, fmt.Errorf("scene %s has more than one root", name)
			}
			root = e
			continue
		}
		parent, ok := byID[rec.ParentID]
		if !ok {
			return nil, fmt.Errorf("element %s of scene %s has unknown parent %s", rec.ID, name, rec.ParentID)
		}
		parent.Children = append(parent.Children, e)
	}

	if root == nil {
		return scene.New(name), nil
	}
	return scene.Restore(name, root), nil
}
