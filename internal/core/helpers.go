package core

import "github.com/samber/lo"

func containsString(items []string, s string) bool {
	return lo.Contains(items, s)
}
