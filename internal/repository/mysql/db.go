package mysql

import (
	"fmt"
	"log"
	"strings"

	"campusanon/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var DB *gorm.DB

func InitDB(dsn string) error {
	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityMember{},
		&model.Post{},
		&model.Comment{},
		&model.PostLike{},
		&model.CommentLike{},
		&model.PostReport{},
		&model.CommentReport{},
		&model.AdminAuditLog{},
		&model.ModerationOutbox{},
	)
}

type branchConfig struct {
	branch       string
	hasDivisions bool
}

// Community matrix. Years 1-2 carry every branch, year 3 drops ARE, year 4
// additionally collapses IT to a single division.
var yearConfigs = map[int][]branchConfig{
	1: {{"COMP", true}, {"IT", true}, {"ENTC", true}, {"MECH", false}, {"ARE", false}},
	2: {{"COMP", true}, {"IT", true}, {"ENTC", true}, {"MECH", false}, {"ARE", false}},
	3: {{"COMP", true}, {"IT", true}, {"ENTC", true}, {"MECH", false}},
	4: {{"COMP", true}, {"IT", false}, {"ENTC", true}, {"MECH", false}},
}

// SeedCommunities creates the global community and the cohort matrix. Safe to
// run on every boot: existing rows are left alone.
func SeedCommunities() error {
	created := 0
	if err := seedOne(&model.Community{
		Name:     "All",
		Slug:     "all",
		IsGlobal: true,
	}, &created); err != nil {
		return err
	}

	for year := 1; year <= 4; year++ {
		for _, bc := range yearConfigs[year] {
			divisions := []string{""}
			if bc.hasDivisions {
				divisions = []string{"A", "B"}
			}
			for _, div := range divisions {
				name := fmt.Sprintf("%d %s", year, bc.branch)
				slug := fmt.Sprintf("%d-%s", year, bc.branch)
				if div != "" {
					name += " " + div
					slug += "-" + div
				}
				c := &model.Community{
					Name:     name,
					Slug:     slugify(slug),
					Year:     year,
					Branch:   bc.branch,
					Division: div,
				}
				if err := seedOne(c, &created); err != nil {
					return err
				}
			}
		}
	}
	if created > 0 {
		log.Printf("seeded %d communities", created)
	}
	return nil
}

func slugify(s string) string {
	return strings.ToLower(s)
}

func seedOne(c *model.Community, created *int) error {
	res := DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		*created++
	}
	return nil
}
