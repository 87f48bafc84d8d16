package wire

import "strconv"

// EMsg: numeric message kind (absolute value of the wire code).
type EMsg int32

const (
	EMsgInvalid EMsg = 0
	EMsgMulti   EMsg = 1

	EMsgChannelEncryptRequest  EMsg = 1303
	EMsgChannelEncryptResponse EMsg = 1304
	EMsgChannelEncryptResult   EMsg = 1305

	// Client session kinds (post-handshake; listed so the resolver
	// recognizes them when they arrive)
	EMsgClientHeartBeat     EMsg = 703
	EMsgClientLogOff        EMsg = 706
	EMsgClientLogOnResponse EMsg = 751
	EMsgClientLoggedOff     EMsg = 757
	EMsgClientLogon         EMsg = 5514
	EMsgClientHello         EMsg = 9805
)

var emsgNames = map[EMsg]string{
	EMsgMulti:                  "Multi",
	EMsgChannelEncryptRequest:  "ChannelEncryptRequest",
	EMsgChannelEncryptResponse: "ChannelEncryptResponse",
	EMsgChannelEncryptResult:   "ChannelEncryptResult",
	EMsgClientHeartBeat:        "ClientHeartBeat",
	EMsgClientLogOff:           "ClientLogOff",
	EMsgClientLogOnResponse:    "ClientLogOnResponse",
	EMsgClientLoggedOff:        "ClientLoggedOff",
	EMsgClientLogon:            "ClientLogon",
	EMsgClientHello:            "ClientHello",
}

// EMsgFromCode maps an absolute kind code to its EMsg; false if unknown.
func EMsgFromCode(code int32) (EMsg, bool) {
	k := EMsg(code)
	_, ok := emsgNames[k]
	return k, ok
}

func (k EMsg) String() string {
	if n, ok := emsgNames[k]; ok {
		return n
	}
	return "EMsg(" + strconv.Itoa(int(k)) + ")"
}
