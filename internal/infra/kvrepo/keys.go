// Package kvrepo はkvstore上にrepositoryの約束を実装する（ローカル動作用）。
package kvrepo

const (
	keyUsers = "auth.users"
)

func cartKey(userID string) string   { return "cart." + userID }
func ordersKey(userID string) string { return "orders." + userID }
