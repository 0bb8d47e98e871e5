package resty

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
)

type MockFuncResponse struct {
	Request     *resty.Request
	RawResponse *http.Response
	Body        any
}

type MockFunc struct {
	Method     string
	Path       string
	ResultBody func(header map[string]string, requestBody any, param ...QueryParam) (MockFuncResponse, error)
}

type mockRestyClient struct {
	mocks map[string]map[string]MockFunc
}

type mockReadyRestyReq struct {
	mocks  map[string]map[string]MockFunc
	body   any
	header map[string]string
}

func (client *mockRestyClient) MakeRequest(ctx context.Context, body any, header map[string]string) ReadyRestyReq {
	return &mockReadyRestyReq{mocks: client.mocks, header: header, body: body}
}

func (m *mockReadyRestyReq) call(method, url string, queryParams ...QueryParam) (*resty.Response, error) {
	mockFunc, ok := m.mocks[method][url]
	if !ok {
		return nil, errors.New("mock not found for the requested method and url")
	}

	resultBody, givenError := mockFunc.ResultBody(m.header, m.body, queryParams...)
	resultResponse, createErr := CreateMockResponse(resultBody, givenError)
	if createErr != nil {
		return nil, createErr
	}
	return resultResponse, givenError
}

func (m *mockReadyRestyReq) Get(url string, queryParams ...QueryParam) (*resty.Response, error) {
	return m.call("GET", url, queryParams...)
}

func (m *mockReadyRestyReq) Post(url string, queryParams ...QueryParam) (*resty.Response, error) {
	return m.call("POST", url, queryParams...)
}

func (m *mockReadyRestyReq) Put(url string, queryParams ...QueryParam) (*resty.Response, error) {
	return m.call("PUT", url, queryParams...)
}

func (m *mockReadyRestyReq) Delete(url string, queryParams ...QueryParam) (*resty.Response, error) {
	return m.call("DELETE", url, queryParams...)
}

func CreateMockResponse(givenBody MockFuncResponse, givenError error) (*resty.Response, error) {
	request := givenBody.Request
	if request == nil {
		request = &resty.Request{}
	}
	request.Error = givenError

	byteGivenBody, marshalErr := json.Marshal(givenBody.Body)
	if marshalErr != nil {
		return nil, marshalErr
	}

	statusCode := http.StatusOK
	var header http.Header
	if givenBody.RawResponse != nil {
		statusCode = givenBody.RawResponse.StatusCode
		header = givenBody.RawResponse.Header
	}

	rawResponse := &http.Response{
		Status:     http.StatusText(statusCode),
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewReader(byteGivenBody)),
		Header:     header,
	}
	restyResp := &resty.Response{
		RawResponse: rawResponse,
		Request:     request,
	}
	restyResp.SetBody(byteGivenBody)
	return restyResp, nil
}
