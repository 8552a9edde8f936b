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

package common

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cm_vault "github.com/comcast/platform-sensors/vault"
	vaultapi "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v3"
)

var (
	log *zap.Logger

	ErrUnknownProfile = errors.New("unknown credential profile")
)

type Credential struct {
	User string
	Pass string
}

// CredentialProfile locates the BMC credential of a host in vault
type CredentialProfile struct {
	Name          string `yaml:"name"`
	MountPath     string `yaml:"mountPath"`
	Path          string `yaml:"path"`
	UserField     string `yaml:"userField"`
	PasswordField string `yaml:"passwordField"`
	SecretName    string `yaml:"secretName"`
}

// CredentialProfiles is a kingpin.Value holding a YAML (or JSON) list of
// profiles.
type CredentialProfiles struct {
	Profiles []CredentialProfile `yaml:"profiles"`
}

// CredentialProf registers the profiles flag value.
func CredentialProf(s kingpin.Settings) *CredentialProfiles {
	p := &CredentialProfiles{}
	s.SetValue(p)
	return p
}

func (p *CredentialProfiles) Set(value string) error {
	var parsed CredentialProfiles
	if err := yaml.Unmarshal([]byte(value), &parsed); err != nil {
		return fmt.Errorf("error parsing credential profiles - %w", err)
	}
	for i, prof := range parsed.Profiles {
		if prof.Name == "" || prof.MountPath == "" || prof.UserField == "" || prof.PasswordField == "" {
			return fmt.Errorf("credential profile %d needs name, mountPath, userField and passwordField", i)
		}
	}
	p.Profiles = append(p.Profiles, parsed.Profiles...)
	return nil
}

func (p *CredentialProfiles) String() string {
	names := make([]string, 0, len(p.Profiles))
	for _, prof := range p.Profiles {
		names = append(names, prof.Name)
	}
	return strings.Join(names, ",")
}

// Get returns the named profile, or the only one when name is empty.
func (p *CredentialProfiles) Get(name string) (*CredentialProfile, error) {
	if name == "" && len(p.Profiles) == 1 {
		return &p.Profiles[0], nil
	}
	for i := range p.Profiles {
		if p.Profiles[i].Name == name {
			return &p.Profiles[i], nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownProfile, name)
}

// SecretReader is the part of the vault client used to read credentials.
type SecretReader interface {
	GetKVSecret(ctx context.Context, props *cm_vault.SecretProperties, secret string) (*vaultapi.KVSecret, error)
}

// GetCredentials reads the BMC user and password of target from vault.
func GetCredentials(ctx context.Context, sr SecretReader, profile *CredentialProfile, target string) (*Credential, error) {
	var user, pass string
	var ok bool

	log = zap.L()

	if sr == nil {
		log.Error("issue retrieving credentials from vault using target "+target, zap.Error(fmt.Errorf("vault client not configured")))
		return nil, fmt.Errorf("issue retrieving credentials from vault using target: %s", target)
	}

	props := &cm_vault.SecretProperties{
		MountPath:     profile.MountPath,
		Path:          profile.Path,
		UserField:     profile.UserField,
		PasswordField: profile.PasswordField,
		SecretName:    profile.SecretName,
	}

	secret, err := sr.GetKVSecret(ctx, props, target)
	if err != nil {
		log.Error("issue retrieving credentials from vault using target "+target, zap.Error(err), zap.String("profile", profile.Name))
		return nil, fmt.Errorf("issue retrieving credentials from vault using target: %s - %w", target, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("the secret retrieved from vault using target %s is empty", target)
	}

	if user, ok = secret.Data[props.UserField].(string); !ok {
		return nil, fmt.Errorf("the secret retrieved from vault using target %s is missing the %q field", target, props.UserField)
	}

	if pass, ok = secret.Data[props.PasswordField].(string); !ok {
		return nil, fmt.Errorf("the secret retrieved from vault using target %s is missing the %q field", target, props.PasswordField)
	}

	return &Credential{
		User: user,
		Pass: pass,
	}, nil
}
