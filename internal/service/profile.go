package service

import (
	"context"
	"encoding/json"
	"fmt"

	"smarthealth-state/internal/domain"
)

// UpdateProfile 合并 profile 顶层字段（浅合并，嵌套对象整体替换）
// 未知字段忽略；类型不匹配时返回 ErrInvalidInput，不做任何修改
func (s *UserDataService) UpdateProfile(ctx context.Context, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return s.mutate(ctx, "update_profile", func(d *domain.UserData) error {
		var p domain.UserProfile
		if err := mergeFields(d.Profile, updates, &p); err != nil {
			return err
		}
		d.Profile = p
		return nil
	})
}

// UpdateProfileSection 合并 emergencyContact / notifications / healthGoals 的字段
func (s *UserDataService) UpdateProfileSection(ctx context.Context, section string, updates map[string]any) error {
	switch section {
	case domain.SectionEmergencyContact, domain.SectionNotifications, domain.SectionHealthGoals:
	default:
		return invalid("unknown profile section %q", section)
	}
	if len(updates) == 0 {
		return nil
	}

	return s.mutate(ctx, "update_profile_section", func(d *domain.UserData) error {
		switch section {
		case domain.SectionEmergencyContact:
			var v domain.EmergencyContact
			if err := mergeFields(d.Profile.EmergencyContact, updates, &v); err != nil {
				return err
			}
			d.Profile.EmergencyContact = v
		case domain.SectionNotifications:
			var v domain.NotificationPreferences
			if err := mergeFields(d.Profile.Notifications, updates, &v); err != nil {
				return err
			}
			d.Profile.Notifications = v
		case domain.SectionHealthGoals:
			var v domain.HealthGoals
			if err := mergeFields(d.Profile.HealthGoals, updates, &v); err != nil {
				return err
			}
			d.Profile.HealthGoals = v
		}
		return nil
	})
}

// mergeFields 以 JSON 字段名为准把 updates 覆盖到 current 上，结果解码到 out
func mergeFields(current any, updates map[string]any, out any) error {
	raw, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("encode current value: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("decode current value: %w", err)
	}

	for key, value := range updates {
		if _, known := fields[key]; !known {
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return invalid("field %s: %v", key, err)
		}
		fields[key] = encoded
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode merged value: %w", err)
	}
	if err := json.Unmarshal(merged, out); err != nil {
		return invalid("%v", err)
	}
	return nil
}
