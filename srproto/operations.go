// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package srproto

// Op is the closed set of operation codes an envelope can carry (§4.4).
type Op int

const (
	OpUnknown Op = iota

	// session lifecycle
	OpSessionStart
	OpSessionStop
	OpSessionRefresh
	OpSessionCheck
	OpSessionSwitchDS
	OpSessionSetOpts

	// schema catalog
	OpListSchemas
	OpGetSchema
	OpModuleInstall
	OpFeatureEnable

	// data access
	OpGetItem
	OpGetItems
	OpGetSubtree
	OpGetSubtrees
	OpGetSubtreeChunk

	// mutation
	OpSetItem
	OpSetItemStr
	OpDeleteItem
	OpMoveItem

	// transaction
	OpValidate
	OpCommit
	OpDiscardChanges
	OpCopyConfig

	// locking
	OpLock
	OpUnlock

	// subscription
	OpSubscribe
	OpUnsubscribe
	OpCheckEnabledRunning
	OpGetChanges
	OpDataProvide
	OpCheckExecPermission
	OpRPC
	OpAction
	OpEventNotif
	OpEventNotifReplay

	// internal
	OpUnsubscribeDestination
	OpCommitTimeout
	OpOperDataTimeout
	OpInternalStateData
	OpNotifStoreCleanup
	OpDelayedMsg
)

var opNames = map[Op]string{
	OpSessionStart:           "SESSION_START",
	OpSessionStop:            "SESSION_STOP",
	OpSessionRefresh:         "SESSION_REFRESH",
	OpSessionCheck:           "SESSION_CHECK",
	OpSessionSwitchDS:        "SESSION_SWITCH_DS",
	OpSessionSetOpts:         "SESSION_SET_OPTS",
	OpListSchemas:            "LIST_SCHEMAS",
	OpGetSchema:              "GET_SCHEMA",
	OpModuleInstall:          "MODULE_INSTALL",
	OpFeatureEnable:          "FEATURE_ENABLE",
	OpGetItem:                "GET_ITEM",
	OpGetItems:               "GET_ITEMS",
	OpGetSubtree:             "GET_SUBTREE",
	OpGetSubtrees:            "GET_SUBTREES",
	OpGetSubtreeChunk:        "GET_SUBTREE_CHUNK",
	OpSetItem:                "SET_ITEM",
	OpSetItemStr:             "SET_ITEM_STR",
	OpDeleteItem:             "DELETE_ITEM",
	OpMoveItem:               "MOVE_ITEM",
	OpValidate:               "VALIDATE",
	OpCommit:                 "COMMIT",
	OpDiscardChanges:         "DISCARD_CHANGES",
	OpCopyConfig:             "COPY_CONFIG",
	OpLock:                   "LOCK",
	OpUnlock:                 "UNLOCK",
	OpSubscribe:              "SUBSCRIBE",
	OpUnsubscribe:            "UNSUBSCRIBE",
	OpCheckEnabledRunning:    "CHECK_ENABLED_RUNNING",
	OpGetChanges:             "GET_CHANGES",
	OpDataProvide:            "DATA_PROVIDE",
	OpCheckExecPermission:    "CHECK_EXEC_PERMISSION",
	OpRPC:                    "RPC",
	OpAction:                 "ACTION",
	OpEventNotif:             "EVENT_NOTIF",
	OpEventNotifReplay:       "EVENT_NOTIF_REPLAY",
	OpUnsubscribeDestination: "UNSUBSCRIBE_DESTINATION",
	OpCommitTimeout:          "COMMIT_TIMEOUT",
	OpOperDataTimeout:        "OPER_DATA_TIMEOUT",
	OpInternalStateData:      "INTERNAL_STATE_DATA",
	OpNotifStoreCleanup:      "NOTIF_STORE_CLEANUP",
	OpDelayedMsg:             "DELAYED_MSG",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return "UNKNOWN"
}

// slot is the payload category an Op's single payload slot belongs to;
// the category, not the individual Op, determines the Go type of the
// payload field the builder allocates (§4.4: "RPC and ACTION share a
// single payload type" generalizes to every Op in the same category
// sharing one payload struct).
type slot int

const (
	slotNone slot = iota
	slotSession
	slotSchema
	slotData
	slotMutation
	slotTransaction
	slotLock
	slotSubscription
	slotRPC
	slotInternal
)

var opSlots = map[Op]slot{
	OpSessionStart:    slotSession,
	OpSessionStop:     slotSession,
	OpSessionRefresh:  slotSession,
	OpSessionCheck:    slotSession,
	OpSessionSwitchDS: slotSession,
	OpSessionSetOpts:  slotSession,

	OpListSchemas:   slotSchema,
	OpGetSchema:     slotSchema,
	OpModuleInstall: slotSchema,
	OpFeatureEnable: slotSchema,

	OpGetItem:         slotData,
	OpGetItems:        slotData,
	OpGetSubtree:      slotData,
	OpGetSubtrees:     slotData,
	OpGetSubtreeChunk: slotData,

	OpSetItem:    slotMutation,
	OpSetItemStr: slotMutation,
	OpDeleteItem: slotMutation,
	OpMoveItem:   slotMutation,

	OpValidate:       slotTransaction,
	OpCommit:         slotTransaction,
	OpDiscardChanges: slotTransaction,
	OpCopyConfig:     slotTransaction,

	OpLock:   slotLock,
	OpUnlock: slotLock,

	OpSubscribe:           slotSubscription,
	OpUnsubscribe:         slotSubscription,
	OpCheckEnabledRunning: slotSubscription,
	OpGetChanges:          slotSubscription,
	OpDataProvide:         slotSubscription,
	OpCheckExecPermission: slotSubscription,
	OpEventNotif:          slotSubscription,
	OpEventNotifReplay:    slotSubscription,

	OpRPC:    slotRPC,
	OpAction: slotRPC,

	OpUnsubscribeDestination: slotInternal,
	OpCommitTimeout:          slotInternal,
	OpOperDataTimeout:        slotInternal,
	OpInternalStateData:      slotInternal,
	OpNotifStoreCleanup:      slotInternal,
	OpDelayedMsg:             slotInternal,
}

// payloadSlot returns op's payload category, or (slotNone, false) for an
// unknown operation code — the Builder/Validator contract's UNSUPPORTED
// / MALFORMED_MSG case.
func payloadSlot(op Op) (slot, bool) {
	s, ok := opSlots[op]
	return s, ok
}
