// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

package web_test

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/glucotrack/glucotrack/internal/gateway"
	"github.com/glucotrack/glucotrack/internal/web"
)

var _ = Describe("Page flows", func() {
	var (
		service     *fakeService
		sessionFile string
		client      *app
	)

	BeforeEach(func() {
		service = newFakeService()
		DeferCleanup(service.server.Close)
		sessionFile = sessionFileIn(GinkgoT().TempDir())
		client = newApp(service, sessionFile, true)
		DeferCleanup(client.close)
	})

	Describe("fresh start", func() {
		It("redirects protected pages to login", func() {
			for _, path := range []string{"/dashboard", "/profile", "/rewards", "/leaderboard"} {
				resp := client.get(path)
				Expect(resp.status).To(Equal(http.StatusSeeOther), path)
				Expect(resp.location).To(Equal("/login"), path)
				Expect(resp.cache).To(Equal("no-store"), path)
			}
			Expect(service.total.Load()).To(BeZero())
		})

		It("shows guest navigation", func() {
			resp := client.get("/")
			Expect(resp.status).To(Equal(http.StatusOK))
			Expect(resp.body).To(ContainSubstring(`href="/register"`))
			Expect(resp.body).To(ContainSubstring(`href="/login"`))
			Expect(resp.body).NotTo(ContainSubstring("Logged in as:"))
			Expect(resp.body).NotTo(ContainSubstring(`action="/logout"`))
		})

		It("reports no session on the api", func() {
			resp := client.get("/api/session")
			Expect(resp.status).To(Equal(http.StatusOK))
			Expect(resp.body).To(MatchJSON(`{"username":null,"resolved":true}`))
		})
	})

	Describe("login", func() {
		It("establishes and persists the session", func() {
			resp := client.post("/login", url.Values{"username": {"  alice "}, "password": {"password1"}})
			Expect(resp.status).To(Equal(http.StatusSeeOther))
			Expect(resp.location).To(Equal("/"))

			identity, ok := client.store.Current()
			Expect(ok).To(BeTrue())
			Expect(identity).To(Equal("alice"))

			stored, err := os.ReadFile(sessionFile)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(stored)).To(Equal("alice"))

			home := client.get("/")
			Expect(home.body).To(ContainSubstring("Logged in as: alice"))
			Expect(home.body).To(ContainSubstring(`href="/dashboard"`))
			Expect(home.body).To(ContainSubstring(`action="/logout"`))
			Expect(home.body).NotTo(ContainSubstring(`href="/register"`))

			Expect(client.get("/api/session").body).To(MatchJSON(`{"username":"alice","resolved":true}`))
		})

		It("rejects short credentials without contacting the service", func() {
			resp := client.post("/login", url.Values{"username": {"al"}, "password": {"password1"}})
			Expect(resp.status).To(Equal(http.StatusUnprocessableEntity))
			Expect(resp.body).To(ContainSubstring("Username or password is too short."))
			Expect(service.total.Load()).To(BeZero())
			_, ok := client.store.Current()
			Expect(ok).To(BeFalse())
		})

		It("shows the service message verbatim and keeps the form", func() {
			resp := client.post("/login", url.Values{"username": {"alice"}, "password": {"wrongpass"}})
			Expect(resp.status).To(Equal(http.StatusUnauthorized))
			Expect(resp.body).To(ContainSubstring("Invalid username or password."))
			Expect(resp.body).To(ContainSubstring(`value="alice"`))
			Expect(resp.body).To(ContainSubstring(`value="wrongpass"`))
			_, ok := client.store.Current()
			Expect(ok).To(BeFalse())
		})

		It("shows a generic message on transport failure", func() {
			service.setLogin(func(w http.ResponseWriter, _ map[string]any) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("Traceback (most recent call last)"))
			})
			resp := client.post("/login", url.Values{"username": {"alice"}, "password": {"password1"}})
			Expect(resp.status).To(Equal(http.StatusBadGateway))
			Expect(resp.body).To(ContainSubstring(gateway.GenericMessage))
			Expect(resp.body).NotTo(ContainSubstring("Traceback"))
		})

		It("refuses a second submission while one is in flight", func() {
			entered := make(chan struct{})
			release := make(chan struct{})
			service.setLogin(func(w http.ResponseWriter, body map[string]any) {
				close(entered)
				<-release
				replyJSON(w, http.StatusOK, map[string]any{"success": true, "username": body["username"]})
			})

			first := make(chan response, 1)
			go func() {
				defer GinkgoRecover()
				first <- client.post("/login", url.Values{"username": {"alice"}, "password": {"password1"}})
			}()
			Eventually(entered).Should(BeClosed())

			second := client.post("/login", url.Values{"username": {"bob"}, "password": {"password1"}})
			Expect(second.status).To(Equal(http.StatusConflict))
			Expect(second.body).To(ContainSubstring(web.MessageBusy))

			close(release)
			var firstResp response
			Eventually(first).Should(Receive(&firstResp))
			Expect(firstResp.status).To(Equal(http.StatusSeeOther))
			Expect(service.count(gateway.LoginPath)).To(Equal(1))
			identity, _ := client.store.Current()
			Expect(identity).To(Equal("alice"))
		})
	})

	Describe("registration", func() {
		It("sends nothing when a field is invalid and keeps the values", func() {
			form := validRegistrationForm()
			form.Set("phone_number", "12345")
			resp := client.post("/register", form)
			Expect(resp.status).To(Equal(http.StatusUnprocessableEntity))
			Expect(resp.body).To(ContainSubstring("Phone number must be 10–15 digits and may start with +."))
			Expect(resp.body).To(ContainSubstring(`value="Grace"`))
			Expect(resp.body).To(ContainSubstring(`value="cobol1959"`))
			Expect(service.total.Load()).To(BeZero())
		})

		It("reports only the first failing rule", func() {
			form := validRegistrationForm()
			form.Set("first_name", "G")
			form.Set("email", "nope")
			resp := client.post("/register", form)
			Expect(resp.body).To(ContainSubstring("First name must contain only letters (2–50 characters)."))
			Expect(resp.body).NotTo(ContainSubstring("Invalid email format."))
		})

		It("redirects to login without signing in", func() {
			resp := client.post("/register", validRegistrationForm())
			Expect(resp.status).To(Equal(http.StatusSeeOther))
			Expect(resp.location).To(Equal("/login?registered=1&username=hop42"))
			_, ok := client.store.Current()
			Expect(ok).To(BeFalse())

			page := client.get(resp.location)
			Expect(page.body).To(ContainSubstring(web.MessageRegistered))
			Expect(page.body).To(ContainSubstring("hop42"))
		})
	})

	Describe("signed in", func() {
		BeforeEach(func() {
			Expect(client.store.Set(context.Background(), "alice")).To(Succeed())
		})

		It("renders the dashboard with the embedded view", func() {
			resp := client.get("/dashboard")
			Expect(resp.status).To(Equal(http.StatusOK))
			Expect(resp.cache).To(Equal("no-store"))
			Expect(resp.body).To(ContainSubstring("Welcome, alice"))
			Expect(resp.body).To(ContainSubstring("Blood Glucose Level: 98"))
			Expect(resp.body).To(ContainSubstring("/dashboard/?username=alice"))
			Expect(service.count(gateway.UserPath)).To(Equal(1))
		})

		It("embeds the matching dashboard view", func() {
			for view, title := range map[string]string{"profile": "Profile", "rewards": "Rewards", "leaderboard": "Leaderboards"} {
				resp := client.get("/" + view)
				Expect(resp.status).To(Equal(http.StatusOK), view)
				Expect(resp.body).To(ContainSubstring("<h2>"+title+"</h2>"), view)
				Expect(resp.body).To(ContainSubstring("/dashboard/"+view+"?username=alice"), view)
			}
		})

		It("sends the visitor to login when the service rejects the session", func() {
			service.setUser(func(w http.ResponseWriter) {
				replyJSON(w, http.StatusUnauthorized, map[string]any{"success": false})
			})
			resp := client.get("/dashboard")
			Expect(resp.status).To(Equal(http.StatusSeeOther))
			Expect(resp.location).To(Equal("/login"))
			identity, ok := client.store.Current()
			Expect(ok).To(BeTrue())
			Expect(identity).To(Equal("alice"))
		})

		It("logs out and blocks protected pages again", func() {
			resp := client.post("/logout", nil)
			Expect(resp.status).To(Equal(http.StatusSeeOther))
			Expect(resp.location).To(Equal("/login"))

			_, ok := client.store.Current()
			Expect(ok).To(BeFalse())
			_, err := os.Stat(sessionFile)
			Expect(os.IsNotExist(err)).To(BeTrue())

			back := client.get("/dashboard")
			Expect(back.status).To(Equal(http.StatusSeeOther))
			Expect(back.location).To(Equal("/login"))
			Expect(client.get("/").body).To(ContainSubstring(`href="/register"`))
		})

		It("logging out twice succeeds", func() {
			Expect(client.post("/logout", nil).status).To(Equal(http.StatusSeeOther))
			Expect(client.post("/logout", nil).status).To(Equal(http.StatusSeeOther))
		})
	})

	Describe("restart", func() {
		It("restores the identity without logging in again", func() {
			Expect(client.store.Set(context.Background(), "alice")).To(Succeed())

			restarted := newApp(service, sessionFile, true)
			DeferCleanup(restarted.close)

			resp := restarted.get("/dashboard")
			Expect(resp.status).To(Equal(http.StatusOK))
			Expect(service.count(gateway.LoginPath)).To(BeZero())
			Expect(restarted.get("/").body).To(ContainSubstring("Logged in as: alice"))
		})

		It("holds protected pages until the session is read", func() {
			Expect(client.store.Set(context.Background(), "alice")).To(Succeed())
			pending := newApp(service, sessionFile, false)
			DeferCleanup(pending.close)

			done := make(chan response, 1)
			go func() {
				defer GinkgoRecover()
				done <- pending.get("/rewards")
			}()
			Consistently(done, 100*time.Millisecond).ShouldNot(Receive())

			Expect(pending.store.Initialize(context.Background())).To(Succeed())
			var resp response
			Eventually(done).Should(Receive(&resp))
			Expect(resp.status).To(Equal(http.StatusOK))
			Expect(strings.Contains(resp.body, "/dashboard/rewards?username=alice")).To(BeTrue())
		})
	})

	It("answers unknown pages with 404", func() {
		Expect(client.get("/nowhere").status).To(Equal(http.StatusNotFound))
	})
})
