package smoke_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/userdir/internal/adapters/http/api"
	service "github.com/okian/userdir/internal/app"
	"github.com/okian/userdir/internal/smoke"
	"github.com/okian/userdir/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newServer() *httptest.Server {
	svc := service.New()
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestRun(t *testing.T) {
	Convey("Given a freshly started server", t, func() {
		srv := newServer()
		defer srv.Close()
		cfg := &smoke.Config{BaseURL: srv.URL, Timeout: 5 * time.Second, Verbose: true}

		Convey("When running the reference scenario", func() {
			stats, err := smoke.Run(context.Background(), cfg, smoke.Scenario())

			Convey("Then every step should pass", func() {
				So(err, ShouldBeNil)
				So(stats.Passed, ShouldEqual, len(smoke.Scenario()))
			})
		})

		Convey("When running it twice against the same server", func() {
			_, err := smoke.Run(context.Background(), cfg, smoke.Scenario())
			So(err, ShouldBeNil)
			stats, err := smoke.Run(context.Background(), cfg, smoke.Scenario())

			Convey("Then the lookup of the now-existing Zoe should be the first mismatch", func() {
				So(errors.Is(err, smoke.ErrMismatch), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "step 2")
				So(stats.Passed, ShouldEqual, 1)
			})
		})
	})

	Convey("Given no server at the address", t, func() {
		srv := newServer()
		url := srv.URL
		srv.Close()

		Convey("When running the scenario", func() {
			_, err := smoke.Run(context.Background(), &smoke.Config{BaseURL: url, Timeout: time.Second}, smoke.Scenario())

			Convey("Then the health check should fail", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "health check")
			})
		})
	})
}
