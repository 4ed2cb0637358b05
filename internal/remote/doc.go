// Package remote lets other devices press keys on a running keyboard.
//
// A Server accepts websocket connections on /ws. Clients send presses:
//
//	{"type":"press","key":"a"}
//	{"type":"press","key":"ShiftLeft"}
//
// Messages are checked against a JSON schema and key names are normalised
// with keyboard.ParseKey. Accepted presses go to the server's Sink and are
// treated as clicks on the on-screen keyboard. Rejected messages get an
// error reply and the connection stays open.
//
// The server is also a session observer: every accepted key press,
// physical or virtual, is broadcast to all clients:
//
//	{"type":"event","key":"a","source":"virtual","text":"a","caret":1,"uppercase":false,"tutor_mode":false}
//
// Running keyboards announce themselves over mDNS as ServiceType, and a
// Scanner finds them.
package remote
