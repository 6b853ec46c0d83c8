package epcis

// Shared fixtures: the same shipment encoded in all three dialects.
// One ObjectEvent with two EPCs, then one AggregationEvent, sent from
// Acme (company prefix 0614141) to Globex (0012345).

const doc12XML = `<?xml version="1.0" encoding="UTF-8"?>
<epcis:EPCISDocument xmlns:epcis="urn:epcglobal:epcis:xsd:1" xmlns:sbdh="http://www.unece.org/cefact/namespaces/StandardBusinessDocumentHeader" schemaVersion="1.2" creationDate="2023-06-15T09:00:00Z">
  <EPCISHeader>
    <sbdh:StandardBusinessDocumentHeader>
      <sbdh:HeaderVersion>1.0</sbdh:HeaderVersion>
      <sbdh:Sender>
        <sbdh:Identifier Authority="GS1">urn:epc:id:sgln:0614141.00001.0</sbdh:Identifier>
        <sbdh:ContactInformation>
          <sbdh:Contact>John Doe</sbdh:Contact>
        </sbdh:ContactInformation>
      </sbdh:Sender>
      <sbdh:Receiver>
        <sbdh:Identifier Authority="GS1">urn:epc:id:sgln:0012345.00001.0</sbdh:Identifier>
        <sbdh:ContactInformation>
          <sbdh:Contact>Jane Smith</sbdh:Contact>
        </sbdh:ContactInformation>
      </sbdh:Receiver>
      <sbdh:DocumentIdentification>
        <sbdh:CreationDateAndTime>2023-06-15T09:00:00Z</sbdh:CreationDateAndTime>
        <sbdh:InstanceIdentifier>DOC-42</sbdh:InstanceIdentifier>
      </sbdh:DocumentIdentification>
    </sbdh:StandardBusinessDocumentHeader>
    <extension>
      <EPCISMasterData>
        <VocabularyList>
          <Vocabulary type="urn:epcglobal:epcis:vtype:Location">
            <VocabularyElement id="urn:epc:id:sgln:0614141.00001.0">
              <attribute id="urn:epcglobal:cbv:mda#name">Acme Distribution Center</attribute>
              <attribute id="urn:epcglobal:cbv:mda#address">100 Nowhere Street</attribute>
            </VocabularyElement>
          </Vocabulary>
        </VocabularyList>
      </EPCISMasterData>
    </extension>
  </EPCISHeader>
  <EPCISBody>
    <EventList>
      <ObjectEvent>
        <eventTime>2023-06-15T10:00:00.000Z</eventTime>
        <eventTimeZoneOffset>+02:00</eventTimeZoneOffset>
        <epcList>
          <epc>urn:epc:id:sgtin:0614141.107346.2017</epc>
          <epc>urn:epc:id:sgtin:0614141.107346.2018</epc>
        </epcList>
        <action>OBSERVE</action>
        <bizStep>urn:epcglobal:cbv:bizstep:shipping</bizStep>
        <disposition>urn:epcglobal:cbv:disp:in_transit</disposition>
        <readPoint><id>urn:epc:id:sgln:0614141.00001.0</id></readPoint>
        <bizTransactionList>
          <bizTransaction type="urn:epcglobal:cbv:btt:po">http://transaction.acme.com/po/12345678</bizTransaction>
        </bizTransactionList>
      </ObjectEvent>
      <AggregationEvent>
        <eventTime>2023-06-15T11:00:00.000Z</eventTime>
        <eventTimeZoneOffset>+02:00</eventTimeZoneOffset>
        <parentID>urn:epc:id:sscc:0614141.1234567890</parentID>
        <childEPCs>
          <epc>urn:epc:id:sgtin:0614141.107346.2017</epc>
        </childEPCs>
        <action>ADD</action>
      </AggregationEvent>
    </EventList>
  </EPCISBody>
</epcis:EPCISDocument>`

const doc20XML = `<?xml version="1.0" encoding="UTF-8"?>
<epcis:EPCISDocument xmlns:epcis="urn:epcglobal:epcis:xsd:2" schemaVersion="2.0" creationDate="2023-06-15T09:00:00Z">
  <EPCISHeader>
    <EPCISMasterData>
      <VocabularyList>
        <Vocabulary type="urn:epcglobal:epcis:vtype:Location">
          <VocabularyElement id="urn:epc:id:sgln:0614141.00001.0">
            <attribute id="urn:epcglobal:cbv:mda#name">Acme Distribution Center</attribute>
          </VocabularyElement>
        </Vocabulary>
      </VocabularyList>
    </EPCISMasterData>
  </EPCISHeader>
  <EPCISBody>
    <EventList>
      <ObjectEvent>
        <eventTime>2023-06-15T10:00:00.000Z</eventTime>
        <eventTimeZoneOffset>+02:00</eventTimeZoneOffset>
        <epcList>
          <epc>urn:epc:id:sgtin:0614141.107346.2017</epc>
          <epc>urn:epc:id:sgtin:0614141.107346.2018</epc>
        </epcList>
        <action>OBSERVE</action>
        <bizStep>urn:epcglobal:cbv:bizstep:shipping</bizStep>
        <disposition>urn:epcglobal:cbv:disp:in_transit</disposition>
        <ilmd><lotNumber>LOT-7</lotNumber></ilmd>
      </ObjectEvent>
      <AggregationEvent>
        <eventTime>2023-06-15T11:00:00.000Z</eventTime>
        <eventTimeZoneOffset>+02:00</eventTimeZoneOffset>
        <parentID>urn:epc:id:sscc:0614141.1234567890</parentID>
        <childEPCs>
          <epc>urn:epc:id:sgtin:0614141.107346.2017</epc>
        </childEPCs>
        <action>ADD</action>
      </AggregationEvent>
    </EventList>
  </EPCISBody>
</epcis:EPCISDocument>`

const doc20JSON = `{
  "@context": "https://ref.gs1.org/standards/epcis/2.0.0/epcis-context.jsonld",
  "type": "EPCISDocument",
  "schemaVersion": "2.0",
  "creationDate": "2023-06-15T09:00:00Z",
  "epcisHeader": {
    "sender": {
      "identifier": "urn:epc:id:sgln:0614141.00001.0",
      "name": "John Doe"
    },
    "receiver": {
      "identifier": "urn:epc:id:sgln:0012345.00001.0",
      "name": "Jane Smith"
    },
    "epcisMasterData": {
      "vocabularyList": [
        {
          "type": "Location",
          "vocabularyElementList": [
            {
              "id": "urn:epc:id:sgln:0614141.00001.0",
              "attributes": [
                {"id": "urn:epcglobal:cbv:mda#name", "attribute": "Acme Distribution Center"}
              ]
            }
          ]
        }
      ]
    }
  },
  "epcisBody": {
    "eventList": [
      {
        "type": "ObjectEvent",
        "eventTime": "2023-06-15T10:00:00.000Z",
        "eventTimeZoneOffset": "+02:00",
        "epcList": [
          "urn:epc:id:sgtin:0614141.107346.2017",
          "urn:epc:id:sgtin:0614141.107346.2018"
        ],
        "action": "OBSERVE",
        "bizStep": "urn:epcglobal:cbv:bizstep:shipping",
        "disposition": "urn:epcglobal:cbv:disp:in_transit",
        "readPoint": {"id": "urn:epc:id:sgln:0614141.00001.0"},
        "bizTransactionList": [
          {"type": "urn:epcglobal:cbv:btt:po", "bizTransaction": "http://transaction.acme.com/po/12345678"}
        ]
      },
      {
        "type": "AggregationEvent",
        "eventTime": "2023-06-15T11:00:00.000Z",
        "eventTimeZoneOffset": "+02:00",
        "parentID": "urn:epc:id:sscc:0614141.1234567890",
        "childEPCs": ["urn:epc:id:sgtin:0614141.107346.2017"],
        "action": "ADD"
      }
    ]
  }
}`

// doc12XMLNoOffset is well-formed but violates the schema profile: the
// event is missing eventTimeZoneOffset.
const doc12XMLNoOffset = `<?xml version="1.0" encoding="UTF-8"?>
<epcis:EPCISDocument xmlns:epcis="urn:epcglobal:epcis:xsd:1" schemaVersion="1.2">
  <EPCISBody>
    <EventList>
      <ObjectEvent>
        <eventTime>2023-06-15T10:00:00.000Z</eventTime>
        <action>OBSERVE</action>
        <epcList>
          <epc>urn:epc:id:sgtin:0614141.107346.2017</epc>
        </epcList>
      </ObjectEvent>
    </EventList>
  </EPCISBody>
</epcis:EPCISDocument>`
