package auth

// 系统角色
const (
	RoleAdmin = "Admin"
	RoleHR    = "HR"
	RoleUser  = "User"
)

// Actor 当前操作者身份
// Identifier 为稳定标识(邮箱优先,否则用户名)
type Actor struct {
	Identifier string
	Roles      []string
}

// HasRole 判断操作者是否持有指定角色
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsHROrAdmin HR 与 Admin 拥有全量流程的审批/关闭/删除权限
func (a Actor) IsHROrAdmin() bool {
	return a.HasRole(RoleHR) || a.HasRole(RoleAdmin)
}
