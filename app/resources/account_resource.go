// Package resources holds the API Resource transformers (pkg/resource)
// that shape outbound JSON for app/models types.
package resources

import (
	"fmt"

	"github.com/ordinalfs/ordinalfs/app/models"
	"github.com/ordinalfs/ordinalfs/pkg/resource"
)

// AccountResource shapes a models.Account for the account directory route,
// omitting the password hash and adding a self link.
type AccountResource struct {
	resource.Base
}

func (AccountResource) ToArray(v interface{}) resource.Map {
	acct := v.(models.Account)
	return resource.Map{
		"id":       acct.ID,
		"username": acct.Username,
		"email":    acct.Email,
		"role":     acct.Role,
		"links": resource.Map{
			"self": fmt.Sprintf("/api/admin/accounts/%d", acct.ID),
		},
	}
}
