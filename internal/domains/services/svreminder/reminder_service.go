package svreminder

import (
	"context"
	"fmt"
	"time"

	"tsp/supwatch/internal/business"
	"tsp/supwatch/internal/domains/repo/rpproblem"
	"tsp/supwatch/pkg/logger"
)

// ReminderPublisher 提醒投递接口（Redis 发布实现）
type ReminderPublisher interface {
	PublishReminder(ctx context.Context, channel string, reminder interface{}) error
}

// ReminderService 整改提醒服务
// 扫描整改期限生成提醒并发布到通知频道，供外部告警侧消费
type ReminderService struct {
	repo        rpproblem.ProblemRepository
	publisher   ReminderPublisher
	channel     string
	horizonDays int
	logger      logger.Logger
	now         func() time.Time
}

// NewReminderService 创建整改提醒服务实例
func NewReminderService(
	repo rpproblem.ProblemRepository,
	publisher ReminderPublisher,
	channel string,
	horizonDays int,
	log logger.Logger,
) *ReminderService {
	if horizonDays <= 0 {
		horizonDays = business.DefaultReminderHorizonDays
	}
	return &ReminderService{
		repo:        repo,
		publisher:   publisher,
		channel:     channel,
		horizonDays: horizonDays,
		logger:      log,
		now:         time.Now,
	}
}

// DispatchReminders 执行一次提醒扫描与投递
// 单条发布失败只记录日志，不中断其余提醒
func (s *ReminderService) DispatchReminders(ctx context.Context) ([]business.Reminder, error) {
	now := s.now()

	// 一次查出提醒窗口内的全部问题（含已逾期）
	horizon := now.AddDate(0, 0, s.horizonDays)
	problems, err := s.repo.FindDueBefore(ctx, horizon)
	if err != nil {
		return nil, fmt.Errorf("load problems failed: %w", err)
	}

	reminders := business.BuildReminders(problems, now, s.horizonDays)
	s.logger.Infof(ctx, "[ReminderService] built %d reminders from %d problems",
		len(reminders), len(problems))

	for i := range reminders {
		if err := s.publisher.PublishReminder(ctx, s.channel, &reminders[i]); err != nil {
			s.logger.Errorf(ctx, "[ReminderService] publish reminder failed: problem_id=%d, error=%v",
				reminders[i].ProblemID, err)
		}
	}

	return reminders, nil
}
