package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizbridge/bizbridge/pkg/client"
)

type dispatchCall struct {
	method string
	url    string
	body   any
	query  url.Values
}

type mockDispatcher struct {
	calls []dispatchCall
	resp  *client.Response
	err   error
}

func (m *mockDispatcher) BaseURL(label string) string {
	return client.DefaultEnvironments().BaseURL(label)
}

func (m *mockDispatcher) record(method, u string, body any, query url.Values) (*client.Response, error) {
	m.calls = append(m.calls, dispatchCall{method: method, url: u, body: body, query: query})

	if m.err != nil {
		return nil, m.err
	}

	return m.resp, nil
}

func (m *mockDispatcher) FetchJSON(_ context.Context, u string, query url.Values) (*client.Response, error) {
	return m.record(http.MethodGet, u, nil, query)
}

func (m *mockDispatcher) PostJSON(_ context.Context, u string, body any, query url.Values) (*client.Response, error) {
	return m.record(http.MethodPost, u, body, query)
}

func (m *mockDispatcher) PatchJSON(_ context.Context, u string, body any, query url.Values) (*client.Response, error) {
	return m.record(http.MethodPatch, u, body, query)
}

func (m *mockDispatcher) PutJSON(_ context.Context, u string, body any, query url.Values) (*client.Response, error) {
	return m.record(http.MethodPut, u, body, query)
}

func (m *mockDispatcher) DeleteJSON(_ context.Context, u string, body any, query url.Values) (*client.Response, error) {
	return m.record(http.MethodDelete, u, body, query)
}

func (m *mockDispatcher) FetchBytes(_ context.Context, u string, query url.Values) (*client.Response, error) {
	return m.record("BYTES", u, nil, query)
}

func newTestServer(d Dispatcher, opts ...Option) *BizBridgeMCPServer {
	return NewBizBridgeMCPServer(&http.Server{}, d, opts...)
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()

	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	return text.Text
}

func TestListContacts(t *testing.T) {
	d := &mockDispatcher{resp: &client.Response{StatusCode: http.StatusOK, Data: []any{map[string]any{"id": "c-1"}}}}
	s := newTestServer(d)

	res, _, err := s.ListContacts(context.Background(), &mcp.CallToolRequest{}, ListContactsInput{
		Environment: "INT",
		Search:      " ada ",
		Page:        2,
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.JSONEq(t, `[{"id":"c-1"}]`, resultText(t, res))

	require.Len(t, d.calls, 1)
	assert.Equal(t, http.MethodGet, d.calls[0].method)
	assert.Equal(t, client.IntegrationBaseURL+"/v1/contacts", d.calls[0].url)
	assert.Equal(t, "ada", d.calls[0].query.Get("search"))
	assert.Equal(t, "2", d.calls[0].query.Get("page"))
	assert.False(t, d.calls[0].query.Has("page_size"))
}

func TestGetContact(t *testing.T) {
	tests := []struct {
		name     string
		args     ContactInput
		opts     []Option
		err      error
		wantURL  string
		wantErr  error
		wantFail string
	}{
		{
			name:    "production by default",
			args:    ContactInput{ContactID: "c 1"},
			wantURL: client.ProductionBaseURL + "/v1/contacts/c%201",
		},
		{
			name:    "server default environment",
			args:    ContactInput{ContactID: "c-1"},
			opts:    []Option{WithDefaultEnvironment("integration")},
			wantURL: client.IntegrationBaseURL + "/v1/contacts/c-1",
		},
		{
			name:    "missing id",
			wantErr: ErrMissingID,
		},
		{
			name:     "not found",
			args:     ContactInput{ContactID: "c-1"},
			err:      client.ErrNotFound,
			wantURL:  client.ProductionBaseURL + "/v1/contacts/c-1",
			wantFail: "Failed to get contact: the requested resource was not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &mockDispatcher{
				resp: &client.Response{StatusCode: http.StatusOK, Data: map[string]any{"id": tt.args.ContactID}},
				err:  tt.err,
			}
			s := newTestServer(d, tt.opts...)

			res, _, err := s.GetContact(context.Background(), &mcp.CallToolRequest{}, tt.args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, d.calls)

				return
			}

			require.NoError(t, err)
			require.Len(t, d.calls, 1)
			assert.Equal(t, tt.wantURL, d.calls[0].url)

			if tt.wantFail != "" {
				assert.True(t, res.IsError)
				assert.Equal(t, tt.wantFail, resultText(t, res))

				return
			}

			assert.False(t, res.IsError)
		})
	}
}

func TestGetContact_LargeIntegerID(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":9007199254740993,"name":"Ada"}`))
	}))
	t.Cleanup(api.Close)

	envs := client.DefaultEnvironments()
	envs.Production.BaseURL = api.URL

	c := client.NewClient(
		client.WithEnvironments(envs),
		client.WithAcquirer(client.NewCredentialsAcquirer(client.Credentials{})),
	)
	s := newTestServer(c)

	res, _, err := s.GetContact(context.Background(), &mcp.CallToolRequest{}, ContactInput{ContactID: "9007199254740993"})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	text := resultText(t, res)
	assert.Contains(t, text, "9007199254740993")
	assert.NotContains(t, text, "9007199254740992")
	assert.JSONEq(t, `{"id":9007199254740993,"name":"Ada"}`, text)
}

func TestCreateContact(t *testing.T) {
	d := &mockDispatcher{resp: &client.Response{StatusCode: http.StatusCreated, Empty: true}}
	s := newTestServer(d)

	res, _, err := s.CreateContact(context.Background(), &mcp.CallToolRequest{}, CreateContactInput{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"status_code":201}`, resultText(t, res))

	require.Len(t, d.calls, 1)
	assert.Equal(t, http.MethodPost, d.calls[0].method)
	assert.Equal(t, contactFields{Name: "Ada Lovelace", Email: "ada@example.com"}, d.calls[0].body)

	_, _, err = s.CreateContact(context.Background(), &mcp.CallToolRequest{}, CreateContactInput{Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestUpdateAndDeleteContact(t *testing.T) {
	d := &mockDispatcher{resp: &client.Response{StatusCode: http.StatusNoContent, Empty: true}}
	s := newTestServer(d)

	_, _, err := s.UpdateContact(context.Background(), &mcp.CallToolRequest{}, UpdateContactInput{ContactID: "c-1", Phone: "+15555550100"})
	require.NoError(t, err)

	res, _, err := s.DeleteContact(context.Background(), &mcp.CallToolRequest{}, ContactInput{ContactID: "c-1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"status_code":204}`, resultText(t, res))

	require.Len(t, d.calls, 2)
	assert.Equal(t, http.MethodPatch, d.calls[0].method)
	assert.Equal(t, contactFields{Phone: "+15555550100"}, d.calls[0].body)
	assert.Equal(t, http.MethodDelete, d.calls[1].method)
	assert.Equal(t, client.ProductionBaseURL+"/v1/contacts/c-1", d.calls[1].url)
}

func TestAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		args       APIRequestInput
		wantMethod string
		wantURL    string
		wantErr    error
	}{
		{
			name:       "defaults to get",
			args:       APIRequestInput{Path: "v1/jobs", Query: map[string]string{"status": "open"}},
			wantMethod: http.MethodGet,
			wantURL:    client.ProductionBaseURL + "/v1/jobs",
		},
		{
			name:       "put to integration",
			args:       APIRequestInput{Method: "put", Path: "/v1/jobs/7", Environment: "test", Body: map[string]any{"status": "closed"}},
			wantMethod: http.MethodPut,
			wantURL:    client.IntegrationBaseURL + "/v1/jobs/7",
		},
		{
			name:    "absolute url rejected",
			args:    APIRequestInput{Path: "https://evil.example/v1"},
			wantErr: ErrInvalidPath,
		},
		{
			name:    "unsupported method",
			args:    APIRequestInput{Method: "TRACE", Path: "/v1/jobs"},
			wantErr: ErrInvalidMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &mockDispatcher{resp: &client.Response{StatusCode: http.StatusOK, Data: map[string]any{}}}
			s := newTestServer(d)

			_, _, err := s.APIRequest(context.Background(), &mcp.CallToolRequest{}, tt.args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, d.calls)

				return
			}

			require.NoError(t, err)
			require.Len(t, d.calls, 1)
			assert.Equal(t, tt.wantMethod, d.calls[0].method)
			assert.Equal(t, tt.wantURL, d.calls[0].url)
			assert.Equal(t, tt.args.Body, d.calls[0].body)

			for k, v := range tt.args.Query {
				assert.Equal(t, v, d.calls[0].query.Get(k))
			}
		})
	}
}

func TestGetCallRecording(t *testing.T) {
	audio := []byte("ID3\x04\x00fake-mp3")

	d := &mockDispatcher{resp: &client.Response{StatusCode: http.StatusOK, Bytes: audio, ContentType: "application/octet-stream"}}
	s := newTestServer(d)

	res, _, err := s.GetCallRecording(context.Background(), &mcp.CallToolRequest{}, CallRecordingInput{CallID: "42"})
	require.NoError(t, err)
	require.Len(t, res.Content, 2)

	assert.Contains(t, resultText(t, res), "call recording")

	a, ok := res.Content[1].(*mcp.AudioContent)
	require.True(t, ok)
	assert.Equal(t, audio, a.Data)
	assert.Equal(t, defaultAudioMIMEType, a.MIMEType)

	assert.Equal(t, client.ProductionBaseURL+"/v1/calls/42/recording", d.calls[0].url)
	assert.Equal(t, "BYTES", d.calls[0].method)
}

func TestGetVoicemail_Failure(t *testing.T) {
	d := &mockDispatcher{err: client.ErrUnauthorized}
	s := newTestServer(d)

	res, _, err := s.GetVoicemail(context.Background(), &mcp.CallToolRequest{}, VoicemailInput{VoicemailID: "vm-1", Environment: "int"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "rejected the request credentials")
	assert.Equal(t, client.IntegrationBaseURL+"/v1/voicemails/vm-1/audio", d.calls[0].url)

	_, _, err = s.GetVoicemail(context.Background(), &mcp.CallToolRequest{}, VoicemailInput{})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestServer_ListTools(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(&mockDispatcher{})

	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	serverSession, err := s.newServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	defer serverSession.Close()

	session, err := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil).Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	names := []string{}
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}

	assert.ElementsMatch(t, []string{
		"api-request",
		"list-contacts",
		"get-contact",
		"create-contact",
		"update-contact",
		"delete-contact",
		"get-call-recording",
		"get-voicemail",
	}, names)
}
