// internal/app/features/members/types.go
package members

import (
	"github.com/dalemusser/unionhub/internal/app/system/viewdata"
	"github.com/dalemusser/unionhub/internal/domain/models"
)

type searchData struct {
	viewdata.BaseVM
	Criteria models.SearchCriteria
	Sites    []models.Site
	Count    int
}

type listData struct {
	viewdata.BaseVM
	Criteria models.SearchCriteria
	Members  []models.Identity
}

type messageData struct {
	viewdata.BaseVM
	Count int
}

type detailData struct {
	viewdata.BaseVM
	Member  *models.Identity
	CanEdit bool
}

// searchForm is POST /members/search.
type searchForm struct {
	Name       string `form:"name" validate:"max=200"`
	Site       string `form:"site" validate:"max=200"`
	ActiveOnly bool   `form:"active"`
}

// updateForm is POST /members/detail/update.
type updateForm struct {
	ID               string `form:"id" validate:"required"`
	FullName         string `form:"full_name" validate:"required,max=200"`
	MembershipStatus string `form:"membership_status" validate:"required,max=50"`
}

// messageForm is POST /members/message.
type messageForm struct {
	Body string `form:"body" validate:"max=5000"`
}
