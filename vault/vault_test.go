/*
 * Copyright 2025 Comcast Cable Communications Management, LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package vault

import (
	"context"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testRoleID   = "test-role-id"
	testSecretID = "test-secret-id"
	testToken    = "s.testtoken"
)

func newVaultServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(vaultHandler())
}

func vaultHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/v1/auth/approle/login":
			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["role_id"] != testRoleID || body["secret_id"] != testSecretID {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"errors":["invalid role or secret ID"]}`))
				return
			}
			w.Write([]byte(`{"auth":{"client_token":"` + testToken + `","accessor":"acc","policies":["default"],"lease_duration":600,"renewable":true}}`))
		case "/v1/secret/bmc/10.0.0.1", "/v1/secret/bmc/shared":
			if r.Header.Get("X-Vault-Token") != testToken {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"errors":["permission denied"]}`))
				return
			}
			w.Write([]byte(`{"data":{"user":"admin","password":"calvin"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"errors":[]}`))
		}
	})
}

func Test_Vault_Login_And_Read(t *testing.T) {
	assert := assert.New(t)
	server := newVaultServer(t)
	defer server.Close()
	ctx := context.Background()

	v, err := NewVaultAppRoleClient(ctx, Parameters{
		Address:         server.URL,
		ApproleRoleID:   testRoleID,
		ApproleSecretID: testSecretID,
	})
	assert.Nil(err)
	assert.False(v.IsLoggedIn())

	props := &SecretProperties{MountPath: "secret", Path: "bmc", UserField: "user", PasswordField: "password"}

	_, err = v.GetKVSecret(ctx, props, "10.0.0.1")
	assert.True(errors.Is(err, ErrNotLoggedIn))

	assert.Nil(v.Login(ctx))
	assert.True(v.IsLoggedIn())

	secret, err := v.GetKVSecret(ctx, props, "10.0.0.1")
	assert.Nil(err)
	assert.Equal("admin", secret.Data["user"])
	assert.Equal("calvin", secret.Data["password"])

	props.SecretName = "shared"
	secret, err = v.GetKVSecret(ctx, props, "10.0.0.1")
	assert.Nil(err)
	assert.Equal("admin", secret.Data["user"])

	_, err = v.GetKVSecret(ctx, &SecretProperties{MountPath: "secret", Path: "missing"}, "10.0.0.1")
	assert.NotNil(err)
}

func Test_Vault_Login_Failed(t *testing.T) {
	assert := assert.New(t)
	server := newVaultServer(t)
	defer server.Close()
	ctx := context.Background()

	v, err := NewVaultAppRoleClient(ctx, Parameters{
		Address:         server.URL,
		ApproleRoleID:   testRoleID,
		ApproleSecretID: "wrong",
	})
	assert.Nil(err)

	err = v.Login(ctx)
	assert.NotNil(err)
	assert.Contains(err.Error(), "unable to login using approle auth method")
	assert.False(v.IsLoggedIn())
}

func Test_SecretPath(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("bmc/10.0.0.1", SecretPath(&SecretProperties{Path: "bmc"}, "10.0.0.1"))
	assert.Equal("bmc/shared", SecretPath(&SecretProperties{Path: "bmc", SecretName: "shared"}, "10.0.0.1"))
	assert.Equal("10.0.0.1", SecretPath(&SecretProperties{}, "10.0.0.1"))
}

func Test_Vault_CACert(t *testing.T) {
	assert := assert.New(t)
	server := httptest.NewTLSServer(vaultHandler())
	defer server.Close()
	ctx := context.Background()

	caCert := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: server.Certificate().Raw})
	v, err := NewVaultAppRoleClient(ctx, Parameters{
		Address:         server.URL,
		ApproleRoleID:   testRoleID,
		ApproleSecretID: testSecretID,
		CACertBytes:     caCert,
	})
	assert.Nil(err)
	assert.Nil(v.Login(ctx))
	assert.True(v.IsLoggedIn())

	// without the CA the self-signed server is rejected
	v, err = NewVaultAppRoleClient(ctx, Parameters{
		Address:         server.URL,
		ApproleRoleID:   testRoleID,
		ApproleSecretID: testSecretID,
	})
	assert.Nil(err)
	assert.NotNil(v.Login(ctx))
	assert.False(v.IsLoggedIn())

	_, err = NewVaultAppRoleClient(ctx, Parameters{
		Address:     server.URL,
		CACertBytes: []byte("not a certificate"),
	})
	assert.NotNil(err)
	assert.Contains(err.Error(), "unable to configure TLS")
}
