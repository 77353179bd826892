package config

import (
	"testing"

	"github.com/fedigrab-cli/fedigrab/filesystem"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				val := viper.Get(name)
				So(val, ShouldNotBeNil)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("instances.probe_unknown")
			So(result, ShouldEqual, "instances_probe_unknown")
		})

		Convey("Env names carry the application prefix", func() {
			f := Default["logs.write"]
			So(f.Env(), ShouldEqual, "FEDIGRAB_LOGS_WRITE")
		})
	})
}
