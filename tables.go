package milight

import "fmt"

// ─── Komut ve Renk Tabloları ────────────────────────────────────────────────────
//
// Köprünün beklediği payload'lar sabittir. Tablolar hiçbir zaman
// değiştirilmez; lookup fonksiyonları her çağrıda yeni bir kopya döner,
// böylece MODE ve BRIGHTNESS için byte 2'nin üzerine yazmak tabloyu bozmaz.

// payloadValueIndex, MODE ve BRIGHTNESS payload'larında çağıranın değerinin
// yazıldığı konumdur.
const payloadValueIndex = 2

var commandTable = map[Command][]byte{
	CommandLink:       {0x07, 0x00, 0x00, 0x00, 0x00, 0x00},
	CommandUnlink:     {0x07, 0x00, 0x00, 0x00, 0x00, 0x00},
	CommandOn:         {0x07, 0x03, 0x01, 0x00, 0x00, 0x00},
	CommandOff:        {0x07, 0x03, 0x02, 0x00, 0x00, 0x00},
	CommandBrightness: {0x07, 0x02, 0x64, 0x00, 0x00, 0x00},
	CommandConnect: {
		0x20, 0x00, 0x00, 0x00, 0x16, 0x02,
		0x62, 0x3A, 0xD5, 0xED, 0xA3, 0x01,
		0xAE, 0x08, 0x2D, 0x46, 0x61, 0x41,
		0xA7, 0xF6, 0xDC, 0xAF, 0xD3, 0xE6,
		0x00, 0x00, 0x1E,
	},
	CommandMode: {0x00, 0x04, 0xFF, 0x00, 0x00, 0x00},
}

var colorTable = map[Color][]byte{
	ColorWhite:     {0x07, 0x03, 0x05, 0x00, 0x00, 0x00},
	ColorRoyalBlue: {0x07, 0x01, 0xBA, 0xBA, 0xBA, 0xBA},
	ColorAqua:      {0x07, 0x01, 0x85, 0x85, 0x85, 0x85},
	ColorRed:       {0x07, 0x01, 0xFF, 0xFF, 0xFF, 0xFF},
	ColorLavender:  {0x07, 0x01, 0xD9, 0xD9, 0xD9, 0xD9},
	ColorGreen:     {0x07, 0x01, 0x7A, 0x7A, 0x7A, 0x7A},
	ColorLimeGreen: {0x07, 0x01, 0x54, 0x54, 0x54, 0x54},
	ColorOrange:    {0x07, 0x01, 0x1E, 0x1E, 0x1E, 0x1E},
	ColorYellow:    {0x07, 0x01, 0x3B, 0x3B, 0x3B, 0x3B},
}

// lookupCommand, komut adına karşılık gelen payload'un bir kopyasını döner.
func lookupCommand(c Command) ([]byte, error) {
	payload, ok := commandTable[c]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, string(c))
	}
	return append([]byte(nil), payload...), nil
}

// lookupColor, renge karşılık gelen payload'un bir kopyasını döner.
func lookupColor(c Color) ([]byte, error) {
	payload, ok := colorTable[c]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownColor, int(c))
	}
	return append([]byte(nil), payload...), nil
}

// valuePayload, MODE veya BRIGHTNESS payload'unu value ile doldurur.
func valuePayload(c Command, value byte) ([]byte, error) {
	payload, err := lookupCommand(c)
	if err != nil {
		return nil, err
	}
	payload[payloadValueIndex] = value
	return payload, nil
}
