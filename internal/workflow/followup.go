package workflow

import "time"

// FollowUpCooldown is the minimum interval between follow-up nudges per request
const FollowUpCooldown = 24 * time.Hour

// CheckFollowUp enforces the follow-up cooldown. A nil last timestamp always
// passes. On violation the returned CooldownError carries the remaining wait.
func CheckFollowUp(last *time.Time, now time.Time) error {
	if last == nil {
		return nil
	}
	elapsed := now.Sub(*last)
	if elapsed >= FollowUpCooldown {
		return nil
	}
	return &CooldownError{Remaining: FollowUpCooldown - elapsed}
}
