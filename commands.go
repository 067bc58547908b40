package milight

// ─── Güç Komutları ──────────────────────────────────────────────────────────────

// SwitchOn, bölgedeki ampulleri açar. ZoneAll tüm bölgeleri açar.
//
//	err := bridge.SwitchOn(milight.ZoneAll)
func (b *Bridge) SwitchOn(zone Zone) error {
	return b.sendCommand(CommandOn, zone, ScopeCommand)
}

// SwitchOff, bölgedeki ampulleri kapatır.
func (b *Bridge) SwitchOff(zone Zone) error {
	return b.sendCommand(CommandOff, zone, ScopeCommand)
}

// ─── Renk, Parlaklık ve Mod ─────────────────────────────────────────────────────

// SetColor, bölgenin rengini palet renklerinden birine ayarlar.
// Renk tabloda yoksa hiçbir şey gönderilmeden ErrUnknownColor döner.
//
//	err := bridge.SetColor(milight.ColorRed, milight.Zone2)
func (b *Bridge) SetColor(color Color, zone Zone) error {
	if err := validateZone(zone); err != nil {
		return err
	}
	payload, err := lookupColor(color)
	if err != nil {
		return err
	}
	_, err = b.send("color "+color.String(), payload, zone, ScopeCommand)
	return err
}

// SetBrightness, bölgenin parlaklığını ayarlar.
// intensity: 0-255 arası değer; aralık dışı değerler ErrIntensityOutOfRange döner.
func (b *Bridge) SetBrightness(intensity int, zone Zone) error {
	if err := validateZone(zone); err != nil {
		return err
	}
	if err := validateIntensity(intensity); err != nil {
		return err
	}
	payload, err := valuePayload(CommandBrightness, byte(intensity))
	if err != nil {
		return err
	}
	_, err = b.send(string(CommandBrightness), payload, zone, ScopeCommand)
	return err
}

// SetMode, köprünün yerleşik efekt modlarından birini seçer.
// Geçerli mod numaraları köprü yazılımına bağlıdır; değer kontrol edilmez.
func (b *Bridge) SetMode(mode byte, zone Zone) error {
	if err := validateZone(zone); err != nil {
		return err
	}
	payload, err := valuePayload(CommandMode, mode)
	if err != nil {
		return err
	}
	_, err = b.send(string(CommandMode), payload, zone, ScopeCommand)
	return err
}

// ─── Eşleme ─────────────────────────────────────────────────────────────────────

// Link, yeni açılmış bir ampulü bölgeye eşler. Ampul, açıldıktan sonraki
// birkaç saniye içinde eşleme paketini almalıdır. Bölge seçimi olmayan
// arayüzler DefaultLinkZone kullanır.
func (b *Bridge) Link(zone Zone) error {
	return b.sendCommand(CommandLink, zone, ScopeLink)
}

// Unlink, bölgedeki ampullerin eşlemesini kaldırır.
func (b *Bridge) Unlink(zone Zone) error {
	return b.sendCommand(CommandUnlink, zone, ScopeUnlink)
}

// ─── Ham Komut ──────────────────────────────────────────────────────────────────

// SendCommand, tablo dışı bir payload'u aktif oturumla çerçeveleyip gönderir
// ve köprünün yanıtını olduğu gibi döner.
//
//	resp, err := bridge.SendCommand([]byte{0x07, 0x03, 0x01, 0x00, 0x00, 0x00},
//	    milight.ZoneAll, milight.ScopeCommand)
func (b *Bridge) SendCommand(payload []byte, zone Zone, scope Scope) ([]byte, error) {
	if err := validateZone(zone); err != nil {
		return nil, err
	}
	return b.send("raw", append([]byte(nil), payload...), zone, scope)
}

// sendCommand, komut tablosundaki bir payload'u gönderir.
func (b *Bridge) sendCommand(c Command, zone Zone, scope Scope) error {
	if err := validateZone(zone); err != nil {
		return err
	}
	payload, err := lookupCommand(c)
	if err != nil {
		return err
	}
	_, err = b.send(string(c), payload, zone, scope)
	return err
}
