package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tendeko/closer/src/utils/config"

	"github.com/stretchr/testify/suite"
)

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

type ClientSuite struct {
	suite.Suite

	config *config.Config
}

func (self *ClientSuite) SetupTest() {
	self.config = config.Default()
	self.config.Oracle.RequestsPerSecond = 1000
}

func (self *ClientSuite) client(url string) *Client {
	self.config.Oracle.Url = url
	return NewClient(self.config)
}

func (self *ClientSuite) completionHandler(content string, gotRequest *chatRequest) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		self.Equal("/chat/completions", r.URL.Path)

		if gotRequest != nil {
			err := json.NewDecoder(r.Body).Decode(gotRequest)
			self.NoError(err)
		}

		response := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

func (self *ClientSuite) TestComplete() {
	var request chatRequest
	server := httptest.NewServer(self.completionHandler("The contract text.", &request))
	defer server.Close()

	out, err := self.client(server.URL).Complete(context.Background(), "system", "user", false)
	self.NoError(err)
	self.Equal("The contract text.", out)

	self.Len(request.Messages, 2)
	self.Equal("system", request.Messages[0].Role)
	self.Equal("user", request.Messages[1].Role)
	self.Nil(request.ResponseFormat)
}

func (self *ClientSuite) TestCompleteJsonMode() {
	var request chatRequest
	server := httptest.NewServer(self.completionHandler(`{"total_score": 80}`, &request))
	defer server.Close()

	out, err := self.client(server.URL).Complete(context.Background(), "system", "user", true)
	self.NoError(err)
	self.Equal(`{"total_score": 80}`, out)

	self.NotNil(request.ResponseFormat)
	self.Equal("json_object", request.ResponseFormat.Type)
}

func (self *ClientSuite) TestJsonModeRejectsNonJson() {
	server := httptest.NewServer(self.completionHandler("plain prose, not json", nil))
	defer server.Close()

	_, err := self.client(server.URL).Complete(context.Background(), "system", "user", true)
	self.ErrorIs(err, ErrResponseFormat)
}

func (self *ClientSuite) TestErrorStatus() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := self.client(server.URL).Complete(context.Background(), "system", "user", false)
	self.ErrorIs(err, ErrConnectivity)
}

func (self *ClientSuite) TestEmptyChoices() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	_, err := self.client(server.URL).Complete(context.Background(), "system", "user", false)
	self.ErrorIs(err, ErrResponseFormat)
}

func (self *ClientSuite) TestUnreachableEndpoint() {
	client := self.client("http://127.0.0.1:1")

	_, err := client.Complete(context.Background(), "system", "user", false)
	self.ErrorIs(err, ErrConnectivity)
}
