package service

import "github.com/AmirShamelov/taskr/internal/models"

// CanModify reports whether actor may complete or delete task.
// Admins may modify any task; users only the tasks they own.
func CanModify(actor models.Actor, task *models.Task) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleUser:
		return task.UserID == actor.UserID
	}
	return false
}
