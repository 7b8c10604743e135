package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresProfileStore keeps profiles in the user_profiles table.
type PostgresProfileStore struct {
	db *pgxpool.Pool
}

func NewPostgresProfileStore(db *pgxpool.Pool) *PostgresProfileStore {
	return &PostgresProfileStore{db: db}
}

func (s *PostgresProfileStore) Load(ctx context.Context, id string) domain.ProfileLoad {
	p := &domain.UserProfile{}
	var usage []byte
	err := s.db.QueryRow(ctx,
		`SELECT age, gender, region, family_members, has_children, has_elderly, has_pet,
		        work_schedule, cooking_habits, device_usage
		 FROM user_profiles WHERE id = $1`,
		id,
	).Scan(&p.Age, &p.Gender, &p.Region, &p.FamilyMembers, &p.HasChildren, &p.HasElderly, &p.HasPet,
		&p.WorkSchedule, &p.CookingHabits, &usage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Defaulted(fmt.Errorf("%w: %s", domain.ErrProfileNotFound, id))
		}
		return domain.Defaulted(fmt.Errorf("query profile: %w", err))
	}
	if len(usage) > 0 {
		if err := json.Unmarshal(usage, &p.DeviceUsage); err != nil {
			return domain.Defaulted(fmt.Errorf("%w: device_usage: %v", domain.ErrProfileCorrupt, err))
		}
	}
	p.Normalize()
	return domain.Loaded(p)
}

func (s *PostgresProfileStore) Save(ctx context.Context, id string, p *domain.UserProfile) error {
	usage := p.DeviceUsage
	if usage == nil {
		usage = map[string]int{}
	}
	usageJSON, err := json.Marshal(usage)
	if err != nil {
		return fmt.Errorf("encode device usage: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO user_profiles (id, age, gender, region, family_members, has_children, has_elderly,
		                            has_pet, work_schedule, cooking_habits, device_usage, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		 ON CONFLICT (id) DO UPDATE SET
		   age = EXCLUDED.age,
		   gender = EXCLUDED.gender,
		   region = EXCLUDED.region,
		   family_members = EXCLUDED.family_members,
		   has_children = EXCLUDED.has_children,
		   has_elderly = EXCLUDED.has_elderly,
		   has_pet = EXCLUDED.has_pet,
		   work_schedule = EXCLUDED.work_schedule,
		   cooking_habits = EXCLUDED.cooking_habits,
		   device_usage = EXCLUDED.device_usage,
		   updated_at = NOW()`,
		id, p.Age, p.Gender, p.Region, p.FamilyMembers, p.HasChildren, p.HasElderly,
		p.HasPet, p.WorkSchedule, p.CookingHabits, usageJSON,
	)
	return err
}
