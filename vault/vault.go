/*
 * Copyright 2023 Comcast Cable Communications Management, LLC
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
	"errors"
	"fmt"

	vault "github.com/hashicorp/vault/api"
	"github.com/hashicorp/vault/api/auth/approle"
	"go.uber.org/zap"
)

var (
	log *zap.Logger

	ErrNotLoggedIn = errors.New("vault client is not logged in")
)

type Parameters struct {
	// connection and credential parameters
	Address         string
	ApproleRoleID   string
	ApproleSecretID string
	CACertBytes     []byte
}

// the locations / field names of kv secrets
type SecretProperties struct {
	MountPath     string
	Path          string
	UserField     string
	PasswordField string
	SecretName    string
}

// Vault is a single-use client: one approle login, then a few KV reads
// before the process exits. The token is never renewed.
type Vault struct {
	client     *vault.Client
	Parameters Parameters
	isLoggedIn bool
}

// NewVaultAppRoleClient builds a client for parameters. Call Login before
// reading secrets.
func NewVaultAppRoleClient(ctx context.Context, parameters Parameters) (*Vault, error) {
	config := vault.DefaultConfig()
	config.Address = parameters.Address
	if len(parameters.CACertBytes) > 0 {
		if err := config.ConfigureTLS(&vault.TLSConfig{
			CACertBytes: parameters.CACertBytes,
		}); err != nil {
			return nil, fmt.Errorf("unable to configure TLS: %w", err)
		}
	}

	client, err := vault.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize vault client: %w", err)
	}
	// a token from the environment must not bypass approle
	client.ClearToken()

	return &Vault{
		client:     client,
		Parameters: parameters,
	}, nil
}

// Login authenticates with the AppRole role id and secret id.
func (v *Vault) Login(ctx context.Context) error {
	log = zap.L()

	appRoleAuth, err := approle.NewAppRoleAuth(
		v.Parameters.ApproleRoleID,
		&approle.SecretID{FromString: v.Parameters.ApproleSecretID},
	)
	if err != nil {
		return fmt.Errorf("unable to initialize approle authentication method: %w", err)
	}

	authInfo, err := v.client.Auth().Login(ctx, appRoleAuth)
	if err != nil {
		v.isLoggedIn = false
		return fmt.Errorf("unable to login using approle auth method: %w", err)
	}
	if authInfo == nil {
		v.isLoggedIn = false
		return fmt.Errorf("no auth info was returned after login")
	}

	v.isLoggedIn = true
	log.Debug("logged in to vault", zap.String("vault_address", v.Parameters.Address))
	return nil
}

// GetKVSecret fetches the latest version of a secret from kv-v1 or kv-v2
func (v *Vault) GetKVSecret(ctx context.Context, props *SecretProperties, secret string) (*vault.KVSecret, error) {
	var kvSecret *vault.KVSecret
	var err error

	if !v.IsLoggedIn() {
		return nil, ErrNotLoggedIn
	}

	secretPath := SecretPath(props, secret)

	if props.MountPath != "kv2" {
		kvSecret, err = v.client.KVv1(props.MountPath).Get(ctx, secretPath)
	} else {
		kvSecret, err = v.client.KVv2(props.MountPath).Get(ctx, secretPath)
	}

	if err != nil {
		return kvSecret, fmt.Errorf("unable to read secret: %w", err)
	}

	return kvSecret, nil
}

// SecretPath joins the profile path with the secret name, falling back to
// secret (the BMC host) when the profile names none.
func SecretPath(props *SecretProperties, secret string) string {
	name := secret
	if props.SecretName != "" {
		name = props.SecretName
	}
	if props.Path != "" {
		return fmt.Sprintf("%s/%s", props.Path, name)
	}
	return name
}

func (v *Vault) IsLoggedIn() bool {
	return v.isLoggedIn
}
