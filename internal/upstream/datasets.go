// Package upstream serves the static datasets the gateway routes to.
package upstream

import (
	"fmt"
	"sort"
	"time"
)

// User is a record of the users service.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Order is a record of the orders service.
type Order struct {
	OrderID string `json:"order_id"`
	UserID  int    `json:"user_id"`
	Product string `json:"product"`
}

// Member is a record of the members (service A) dataset.
type Member struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Status   string `json:"status"`
	Since    string `json:"since"`
}

// MembersPayload wraps the member list with the time it was served.
type MembersPayload struct {
	Timestamp float64  `json:"timestamp"`
	Users     []Member `json:"users"`
}

var users = []User{
	{ID: 1, Name: "Alice", Role: "Dev"},
	{ID: 2, Name: "Bob", Role: "QA"},
}

var orders = []Order{
	{OrderID: "O1001", UserID: 1, Product: "Laptop"},
	{OrderID: "O1002", UserID: 2, Product: "Mouse"},
	{OrderID: "O1003", UserID: 1, Product: "Monitor"},
}

var members = []Member{
	{ID: 1, Username: "alice_dev", Status: "ativo", Since: "2023-01-15"},
	{ID: 2, Username: "bob_tester", Status: "inativo", Since: "2022-11-20"},
	{ID: 3, Username: "charlie_pm", Status: "ativo", Since: "2024-05-01"},
}

// Dataset is one static resource served at Path.
type Dataset struct {
	Name    string
	Path    string
	payload func(now time.Time) any
}

// Payload returns the JSON-encodable body served at now.
func (d Dataset) Payload(now time.Time) any {
	return d.payload(now)
}

var datasets = map[string]Dataset{
	"users": {
		Name:    "users",
		Path:    "/users",
		payload: func(time.Time) any { return users },
	},
	"orders": {
		Name:    "orders",
		Path:    "/orders",
		payload: func(time.Time) any { return orders },
	},
	"members": {
		Name: "members",
		Path: "/users",
		payload: func(now time.Time) any {
			return MembersPayload{
				Timestamp: float64(now.UnixMicro()) / 1e6,
				Users:     members,
			}
		},
	},
}

// Lookup returns the dataset registered under name.
func Lookup(name string) (Dataset, error) {
	ds, ok := datasets[name]
	if !ok {
		return Dataset{}, fmt.Errorf("unknown dataset %q (available: %v)", name, Names())
	}
	return ds, nil
}

// Names lists the available dataset names, sorted.
func Names() []string {
	names := make([]string, 0, len(datasets))
	for name := range datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
