package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"learner": {
		"course:view",
		"session:*",
		"discussion:post",
		"discussion:reply",
		"discussion:delete-own",
	},
	"trainer": {
		"course:view",
		"session:*",
		"discussion:*",
		"catalog:write",
	},
	"admin": {
		"*", // everything
	},
}
