package epcis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCrossDialect_Equivalence tests that the same shipment encoded in
// all three dialects normalizes to the same event sequence.
func TestCrossDialect_Equivalence(t *testing.T) {
	ctx := context.Background()

	docs := map[Format]string{
		FormatV12XML:    doc12XML,
		FormatV20XML:    doc20XML,
		FormatV20JSONLD: doc20JSON,
	}

	parsed := make(map[Format][]*Event, len(docs))
	for want, data := range docs {
		p, err := NewParser(data)
		require.NoError(t, err, want)
		require.Equal(t, want, p.Format())

		events, err := p.Events(ctx)
		require.NoError(t, err, want)
		parsed[want] = events
	}

	ref := parsed[FormatV12XML]
	require.Len(t, ref, 2)
	for format, events := range parsed {
		require.Len(t, events, len(ref), format)
		for i := range ref {
			assert.Equal(t, ref[i].Type, events[i].Type, "%s event %d", format, i)
			assert.Equal(t, ref[i].EventTime, events[i].EventTime, "%s event %d", format, i)
			assert.Equal(t, ref[i].EventTimeZoneOffset, events[i].EventTimeZoneOffset, "%s event %d", format, i)
			assert.Equal(t, ref[i].Action, events[i].Action, "%s event %d", format, i)
		}
		assert.Equal(t, ref[0].EPCList, events[0].EPCList, format)
		assert.Equal(t, ref[1].ParentID, events[1].ParentID, format)
		assert.Equal(t, ref[1].ChildEPCs, events[1].ChildEPCs, format)
	}
}

// TestCrossDialect_MasterDataAndLinking tests that every dialect yields
// the Acme location entry linked to the shipment's EPCs.
func TestCrossDialect_MasterDataAndLinking(t *testing.T) {
	ctx := context.Background()

	for format, data := range map[Format]string{
		FormatV12XML:    doc12XML,
		FormatV20XML:    doc20XML,
		FormatV20JSONLD: doc20JSON,
	} {
		p, err := NewParser(data)
		require.NoError(t, err, format)

		md, err := p.MasterData(ctx)
		require.NoError(t, err, format)

		entry := md["urn:epc:id:sgln:0614141.00001.0"]
		require.NotNil(t, entry, format)
		assert.Equal(t, "Acme Distribution Center", entry.Name, format)
		assert.Contains(t, entry.RelatedEPCs, "urn:epc:id:sgtin:0614141.107346.2017", format)
		assert.NotEmpty(t, entry.RelatedEvents, format)

		events, err := p.Events(ctx)
		require.NoError(t, err, format)
		require.NotEmpty(t, events[0].RelatedMasterData, format)
		assert.Equal(t, entry.ID, events[0].RelatedMasterData[0].ID, format)
	}
}

// TestCrossDialect_SenderResolution tests party resolution through the
// channel each dialect actually provides: the SBDH in 1.2 XML, plain
// header objects in JSON-LD.
func TestCrossDialect_SenderResolution(t *testing.T) {
	ctx := context.Background()

	for format, data := range map[Format]string{
		FormatV12XML:    doc12XML,
		FormatV20JSONLD: doc20JSON,
	} {
		p, err := NewParser(data)
		require.NoError(t, err, format)

		sender, err := p.Sender(ctx)
		require.NoError(t, err, format)
		assert.Equal(t, "urn:epc:id:sgln:0614141.00001.0", sender.Identifier, format)
		assert.Equal(t, "John Doe", sender.Name, format)

		receiver, err := p.Receiver(ctx)
		require.NoError(t, err, format)
		assert.Equal(t, "urn:epc:id:sgln:0012345.00001.0", receiver.Identifier, format)
		assert.Equal(t, "Jane Smith", receiver.Name, format)
	}

	// The bare 2.0 XML fixture carries no party information at all.
	p, err := NewParser(doc20XML)
	require.NoError(t, err)
	sender, err := p.Sender(ctx)
	require.NoError(t, err)
	assert.True(t, sender.IsZero())
}
