package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Harshitk-cp/homesense/internal/domain"
)

// profileDocument is the on-disk JSON layout of a profile.
type profileDocument struct {
	BasicInfo  *basicInfo  `json:"basic_info"`
	FamilyInfo *familyInfo `json:"family_info"`
	Lifestyle  *lifestyle  `json:"lifestyle,omitempty"`
	DeviceData *deviceData `json:"device_data"`
}

type basicInfo struct {
	Age    *int   `json:"age"`
	Gender string `json:"gender"`
	Region string `json:"region"`
}

type familyInfo struct {
	FamilyMembers int  `json:"family_members"`
	HasChildren   bool `json:"has_children"`
	HasElderly    bool `json:"has_elderly"`
	HasPet        bool `json:"has_pet"`
}

type lifestyle struct {
	WorkSchedule  string `json:"work_schedule"`
	CookingHabits string `json:"cooking_habits"`
}

type deviceData struct {
	Usage map[string]int `json:"usage"`
}

// FileProfileStore keeps one JSON document per profile id in a directory.
type FileProfileStore struct {
	dir string
}

func NewFileProfileStore(dir string) *FileProfileStore {
	return &FileProfileStore{dir: dir}
}

// Path returns the file a profile id is stored in.
func (s *FileProfileStore) Path(id string) string {
	return filepath.Join(s.dir, filepath.Base(id)+".json")
}

// Load reads a profile. A missing file yields Defaulted(ErrProfileNotFound);
// unparsable JSON or a missing section yields Defaulted(ErrProfileCorrupt).
func (s *FileProfileStore) Load(_ context.Context, id string) domain.ProfileLoad {
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Defaulted(fmt.Errorf("%w: %s", domain.ErrProfileNotFound, s.Path(id)))
		}
		return domain.Defaulted(fmt.Errorf("read profile: %w", err))
	}
	p, err := decodeProfile(data)
	if err != nil {
		return domain.Defaulted(err)
	}
	return domain.Loaded(p)
}

func decodeProfile(data []byte) (*domain.UserProfile, error) {
	var doc profileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProfileCorrupt, err)
	}
	if doc.BasicInfo == nil || doc.FamilyInfo == nil || doc.DeviceData == nil {
		return nil, fmt.Errorf("%w: missing basic_info, family_info or device_data", domain.ErrProfileCorrupt)
	}

	p := &domain.UserProfile{
		Age:           doc.BasicInfo.Age,
		Gender:        doc.BasicInfo.Gender,
		Region:        doc.BasicInfo.Region,
		FamilyMembers: doc.FamilyInfo.FamilyMembers,
		HasChildren:   doc.FamilyInfo.HasChildren,
		HasElderly:    doc.FamilyInfo.HasElderly,
		HasPet:        doc.FamilyInfo.HasPet,
		DeviceUsage:   doc.DeviceData.Usage,
	}
	if doc.Lifestyle != nil {
		p.WorkSchedule = doc.Lifestyle.WorkSchedule
		p.CookingHabits = doc.Lifestyle.CookingHabits
	}
	p.Normalize()
	return p, nil
}

func encodeProfile(p *domain.UserProfile) ([]byte, error) {
	usage := p.DeviceUsage
	if usage == nil {
		usage = map[string]int{}
	}
	doc := profileDocument{
		BasicInfo: &basicInfo{Age: p.Age, Gender: p.Gender, Region: p.Region},
		FamilyInfo: &familyInfo{
			FamilyMembers: p.FamilyMembers,
			HasChildren:   p.HasChildren,
			HasElderly:    p.HasElderly,
			HasPet:        p.HasPet,
		},
		Lifestyle:  &lifestyle{WorkSchedule: p.WorkSchedule, CookingHabits: p.CookingHabits},
		DeviceData: &deviceData{Usage: usage},
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Save writes the profile to a temporary file and renames it into place, so
// a crash never leaves a truncated document behind.
func (s *FileProfileStore) Save(_ context.Context, id string, p *domain.UserProfile) error {
	data, err := encodeProfile(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	path := s.Path(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".profile-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp profile: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp profile: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp profile: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace profile: %w", err)
	}
	return nil
}
