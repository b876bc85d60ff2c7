package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/testxbusiness/csromawebapp/core/message"
	testutil "github.com/testxbusiness/csromawebapp/tests"
)

func Test_messageApi_create(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.createAdmin(t)
	token := getToken(t, admin)
	team := testutil.CreateTeam(t, ta.clubRepo, "Under 14")
	athlete := ta.createAthlete(t)
	testutil.AddMember(t, ta.clubRepo, team.ID, athlete.ID)

	body := message.NewMessage{TeamID: team.ID, Subject: "Convocazione", Body: "Ritrovo sabato alle 9."}
	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/messages", token, body)
	ta.do(req, rec)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var msg message.Message
	decode(t, rec, &msg)
	if msg.SenderID != admin.ID {
		t.Errorf("sender = %v; want %v", msg.SenderID, admin.ID)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/admin/messages/"+msg.ID.String()+"/recipients", token)
	ta.do(req, rec)
	if rec.Code != http.StatusOK {
		t.Fatalf("recipients code = %v; body %s", rec.Code, rec.Body.String())
	}
	var rcpts []message.Recipient
	decode(t, rec, &rcpts)
	if len(rcpts) != 1 || rcpts[0].ProfileID != athlete.ID {
		t.Errorf("recipients = %+v; want the one team member", rcpts)
	}
}

func Test_messageApi_create_emptyTeam(t *testing.T) {
	ta := newTestApp(t)
	token := getToken(t, ta.createAdmin(t))
	team := testutil.CreateTeam(t, ta.clubRepo, "Under 14")

	body := message.NewMessage{TeamID: team.ID, Subject: "Convocazione", Body: "Ritrovo sabato."}
	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/messages", token, body)
	ta.do(req, rec)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %v; want %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func Test_messageApi_markRead(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.createAdmin(t)
	adminToken := getToken(t, admin)
	team := testutil.CreateTeam(t, ta.clubRepo, "Under 14")
	testutil.AddMember(t, ta.clubRepo, team.ID, admin.ID)

	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/messages", adminToken,
		message.NewMessage{TeamID: team.ID, Subject: "Avviso", Body: "Palestra chiusa."})
	ta.do(req, rec)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %v; body %s", rec.Code, rec.Body.String())
	}
	var msg message.Message
	decode(t, rec, &msg)

	// reading twice is a no-op
	for i := 0; i < 2; i++ {
		req, rec = newAuthRequest(http.MethodPost, "/v1/admin/messages/"+msg.ID.String()+"/read", adminToken)
		ta.do(req, rec)
		if rec.Code != http.StatusOK {
			t.Fatalf("read code = %v; body %s", rec.Code, rec.Body.String())
		}
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/admin/messages/"+msg.ID.String()+"/recipients", adminToken)
	ta.do(req, rec)
	var rcpts []message.Recipient
	decode(t, rec, &rcpts)
	if len(rcpts) != 1 || !rcpts[0].ReadAt.Valid {
		t.Errorf("recipients = %+v; want a stamped read receipt", rcpts)
	}
}

func Test_messageApi_query_badTeamID(t *testing.T) {
	ta := newTestApp(t)
	token := getToken(t, ta.createAdmin(t))

	req, rec := newAuthRequest(http.MethodGet, "/v1/admin/messages?team_id=nope", token)
	ta.do(req, rec)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %v; want %v", rec.Code, http.StatusBadRequest)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/admin/messages/"+uuid.NewString(), token)
	ta.do(req, rec)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id code = %v; want %v", rec.Code, http.StatusNotFound)
	}
}
