package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func TestEventSchema_ValidateSamples(t *testing.T) {
	schema, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", "event.schema.json"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	validate := func(raw string) {
		t.Helper()
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if err := schema.Validate(v); err != nil {
			t.Fatalf("validate %s: %v", raw, err)
		}
	}

	validate(`{"type":"HELLO","protocol_version":"1.0"}`)
	validate(`{
	  "type":"TRANSFER_COMMIT",
	  "t":30,"source":"nauvis-depot","dest":"hauler-1",
	  "item":"iron-plate","count":300,"eta":130
	}`)
	validate(`{
	  "type":"POD_DELIVERED",
	  "t":130,"source":"nauvis-depot","dest":"hauler-1",
	  "item":"iron-plate","count":300,"shipped":300
	}`)
	validate(`{
	  "type":"POD_EXPIRED",
	  "t":3030,"source":"nauvis-depot","dest":"hauler-1",
	  "item":"iron-plate","count":300
	}`)
	validate(`{
	  "type":"REQUEST_REGISTERED",
	  "platform":"hauler-1","item":"iron-plate","minimum":100,"requested":400
	}`)
	validate(`{"type":"REQUEST_REMOVED","platform":"hauler-1","item":"iron-plate"}`)
}

func TestEventSchema_RejectsBadEvents(t *testing.T) {
	schema, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", "event.schema.json"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	reject := func(raw string) {
		t.Helper()
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if err := schema.Validate(v); err == nil {
			t.Fatalf("expected rejection: %s", raw)
		}
	}

	reject(`{"type":"UNKNOWN_EVENT"}`)
	reject(`{"type":"TRANSFER_COMMIT","t":30,"source":"a","dest":"b","item":"x","count":300}`)
	reject(`{"type":"REQUEST_REGISTERED","platform":"hauler-1","item":"iron-plate","minimum":0,"requested":400}`)
}
