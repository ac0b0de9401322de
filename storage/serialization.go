// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"fmt"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/poiesic/matchmaker/core"
)

// VectorMUS serializes embedding vectors as length-prefixed raw float32s.
var VectorMUS = ord.NewSliceSer[float32](raw.Float32)

func marshal[T any](ser mus.Serializer[T], v T) []byte {
	buf := make([]byte, ser.Size(v))
	ser.Marshal(v, buf)
	return buf
}

// unmarshal decodes one value and rejects trailing bytes.
func unmarshal[T any](ser mus.Serializer[T], data []byte) (*T, error) {
	v, n, err := ser.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return &v, nil
}

// MarshalTask serializes a TaskRecord to bytes.
func MarshalTask(task *core.TaskRecord) []byte {
	return marshal[core.TaskRecord](core.TaskRecordMUS, *task)
}

// UnmarshalTask deserializes a TaskRecord from bytes.
func UnmarshalTask(data []byte) (*core.TaskRecord, error) {
	task, err := unmarshal[core.TaskRecord](core.TaskRecordMUS, data)
	if err != nil {
		return nil, err
	}
	if len(task.Steps) == 0 {
		task.Steps = nil
	}
	return task, nil
}

// MarshalCommunity serializes a Community to bytes.
func MarshalCommunity(c *core.Community) []byte {
	return marshal[core.Community](core.CommunityMUS, *c)
}

// UnmarshalCommunity deserializes a Community from bytes.
func UnmarshalCommunity(data []byte) (*core.Community, error) {
	return unmarshal[core.Community](core.CommunityMUS, data)
}

// MarshalProfile serializes a UserProfile to bytes.
func MarshalProfile(p *core.UserProfile) []byte {
	return marshal[core.UserProfile](core.UserProfileMUS, *p)
}

// UnmarshalProfile deserializes a UserProfile from bytes.
func UnmarshalProfile(data []byte) (*core.UserProfile, error) {
	return unmarshal[core.UserProfile](core.UserProfileMUS, data)
}

// MarshalMembership serializes a Membership to bytes.
func MarshalMembership(m *core.Membership) []byte {
	return marshal[core.Membership](core.MembershipMUS, *m)
}

// UnmarshalMembership deserializes a Membership from bytes.
func UnmarshalMembership(data []byte) (*core.Membership, error) {
	return unmarshal[core.Membership](core.MembershipMUS, data)
}

// MarshalMessage serializes a Message to bytes.
func MarshalMessage(m *core.Message) []byte {
	return marshal[core.Message](core.MessageMUS, *m)
}

// UnmarshalMessage deserializes a Message from bytes.
func UnmarshalMessage(data []byte) (*core.Message, error) {
	return unmarshal[core.Message](core.MessageMUS, data)
}

// MarshalActiveMember serializes an ActiveMember to bytes.
func MarshalActiveMember(m *core.ActiveMember) []byte {
	return marshal[core.ActiveMember](core.ActiveMemberMUS, *m)
}

// UnmarshalActiveMember deserializes an ActiveMember from bytes.
func UnmarshalActiveMember(data []byte) (*core.ActiveMember, error) {
	return unmarshal[core.ActiveMember](core.ActiveMemberMUS, data)
}

// MarshalCheckpoint serializes a Checkpoint to bytes.
func MarshalCheckpoint(checkpoint *core.Checkpoint) []byte {
	return marshal[core.Checkpoint](core.CheckpointMUS, *checkpoint)
}

// UnmarshalCheckpoint deserializes a Checkpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*core.Checkpoint, error) {
	return unmarshal[core.Checkpoint](core.CheckpointMUS, data)
}

// MarshalVector serializes an embedding vector to bytes.
func MarshalVector(v []float32) []byte {
	return marshal[[]float32](VectorMUS, v)
}

// UnmarshalVector deserializes a vector written by MarshalVector.
func UnmarshalVector(data []byte) ([]float32, error) {
	v, err := unmarshal[[]float32](VectorMUS, data)
	if err != nil {
		return nil, err
	}
	return *v, nil
}
