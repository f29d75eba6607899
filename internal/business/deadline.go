package business

import (
	"fmt"
	"time"

	"tsp/supwatch/internal/domains/entity/etproblem"
)

// DefaultReminderHorizonDays 即将逾期提醒默认窗口（天）
const DefaultReminderHorizonDays = 3

// 提醒类型
const (
	ReminderTypeOverdue  = "overdue"          // 已逾期
	ReminderTypeUpcoming = "upcoming_overdue" // 即将逾期
)

// Reminder 整改提醒记录
// 仅生成消息内容，实际投递由外部通知通道负责
type Reminder struct {
	Type              string `json:"type"`
	ProblemID         int64  `json:"problem_id"`
	ResponsiblePerson string `json:"responsible_person"`
	Message           string `json:"message"`
}

// IsOverdue 判断问题是否逾期
// 验证通过与已关闭的问题不计逾期；期限严格早于 now 才算逾期
// （期限恰好等于 now 不算，边界语义由测试固定）
func IsOverdue(p *etproblem.Problem, now time.Time) bool {
	if !p.Status.IsActive() {
		return false
	}
	return p.CorrectionDeadline.Before(now)
}

// RemainingDays 距整改期限的有符号天数
// 以 24 小时为一天向零截断；逾期为负数
func RemainingDays(p *etproblem.Problem, now time.Time) int {
	return int(p.CorrectionDeadline.Sub(now).Hours() / 24)
}

// FindUpcomingOverdue 筛选即将逾期的问题
// 未逾期、仍在整改中且剩余天数不超过 horizonDays
func FindUpcomingOverdue(problems []*etproblem.Problem, now time.Time, horizonDays int) []*etproblem.Problem {
	if horizonDays <= 0 {
		horizonDays = DefaultReminderHorizonDays
	}

	upcoming := make([]*etproblem.Problem, 0)
	for _, p := range problems {
		if !p.Status.IsActive() || IsOverdue(p, now) {
			continue
		}
		if RemainingDays(p, now) <= horizonDays {
			upcoming = append(upcoming, p)
		}
	}
	return upcoming
}

// BuildReminders 生成整改提醒列表
// 逾期问题生成 overdue 提醒，即将逾期问题生成 upcoming_overdue 提醒
// 纯函数，不做任何投递
func BuildReminders(problems []*etproblem.Problem, now time.Time, horizonDays int) []Reminder {
	if horizonDays <= 0 {
		horizonDays = DefaultReminderHorizonDays
	}

	reminders := make([]Reminder, 0)
	for _, p := range problems {
		if !p.Status.IsActive() {
			continue
		}

		remaining := RemainingDays(p, now)
		switch {
		case IsOverdue(p, now):
			overdueDays := remaining
			if overdueDays < 0 {
				overdueDays = -overdueDays
			}
			reminders = append(reminders, Reminder{
				Type:              ReminderTypeOverdue,
				ProblemID:         p.ID,
				ResponsiblePerson: p.ResponsiblePerson,
				Message: fmt.Sprintf("problem %d correction is overdue by %d days, please handle immediately",
					p.ID, overdueDays),
			})

		case remaining <= horizonDays:
			reminders = append(reminders, Reminder{
				Type:              ReminderTypeUpcoming,
				ProblemID:         p.ID,
				ResponsiblePerson: p.ResponsiblePerson,
				Message: fmt.Sprintf("problem %d correction deadline is in %d days, please finish in time",
					p.ID, remaining),
			})
		}
	}
	return reminders
}
