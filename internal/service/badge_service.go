package service

import "opsnexus_backend/internal/model"

// BadgeService 徽章目录。目录是固定数据，用户记录里只引用徽章名。
type BadgeService struct{}

func NewBadgeService() *BadgeService {
	return &BadgeService{}
}

func (s *BadgeService) List() []model.Badge {
	return model.DefaultBadges()
}

func (s *BadgeService) FindByName(name string) *model.Badge {
	for _, b := range model.DefaultBadges() {
		if b.Name == name {
			return &b
		}
	}
	return nil
}
