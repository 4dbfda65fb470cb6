package config_test

import (
	"errors"
	"testing"

	"github.com/okian/agegap/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have the dashboard defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8055")
			convey.So(cfg.AgeMin, convey.ShouldEqual, 10)
			convey.So(cfg.AgeMax, convey.ShouldEqual, 40)
			convey.So(cfg.DefaultAgeLo, convey.ShouldEqual, 30)
			convey.So(cfg.FrameDurationMS, convey.ShouldEqual, 2500)
			convey.So(cfg.RosterLineStep, convey.ShouldEqual, 6)
			convey.So(cfg.PageSize, convey.ShouldEqual, 10)
			convey.So(cfg.ShowText, convey.ShouldBeTrue)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs violating a constraint", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":            func(c *config.Config) { c.Addr = "" },
			"inverted ages":         func(c *config.Config) { c.AgeMin, c.AgeMax = 40, 10 },
			"negative age_min":      func(c *config.Config) { c.AgeMin = -1 },
			"zero age_min":          func(c *config.Config) { c.AgeMin = 0 },
			"default out of bounds": func(c *config.Config) { c.DefaultAgeLo = 99 },
			"zero roster step":      func(c *config.Config) { c.RosterLineStep = 0 },
			"page over max":         func(c *config.Config) { c.PageSize, c.MaxPageSize = 50, 10 },
			"zero frame duration":   func(c *config.Config) { c.FrameDurationMS = 0 },
			"missing file name":     func(c *config.Config) { c.HostCitiesFile = "" },
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)

			convey.Convey("Then "+name+" should be rejected", func() {
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
