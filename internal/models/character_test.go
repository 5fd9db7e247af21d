package models

import (
	"errors"
	"math/big"
	"testing"
)

func raw(index int64, name, uri string, hp, maxHp, attack int64) RawCharacter {
	return RawCharacter{
		CharacterIndex: big.NewInt(index),
		Name:           name,
		ImageURI:       uri,
		Hp:             big.NewInt(hp),
		MaxHp:          big.NewInt(maxHp),
		AttackDamage:   big.NewInt(attack),
	}
}

func TestTransformCharacterData(t *testing.T) {
	tests := []struct {
		name string
		in   RawCharacter
		want Character
	}{
		{
			name: "zoro",
			in:   raw(0, "ZORO", "https://i.imgur.com/TZEhCTX.png", 100, 100, 100),
			want: Character{Index: 0, Name: "ZORO", ImageURI: "https://i.imgur.com/TZEhCTX.png", Hp: 100, MaxHp: 100, AttackDamage: 100},
		},
		{
			name: "damaged boss",
			in:   raw(0, "CROCODILE", "https://i.imgur.com/BehawOh.png", 9850, 10000, 50),
			want: Character{Name: "CROCODILE", ImageURI: "https://i.imgur.com/BehawOh.png", Hp: 9850, MaxHp: 10000, AttackDamage: 50},
		},
		{
			name: "zero hp",
			in:   raw(2, "USOPP", "", 0, 300, 25),
			want: Character{Index: 2, Name: "USOPP", Hp: 0, MaxHp: 300, AttackDamage: 25},
		},
		{
			name: "max safe",
			in:   raw(1, "NAMI", "u", MaxSafeInteger, MaxSafeInteger, 1),
			want: Character{Index: 1, Name: "NAMI", ImageURI: "u", Hp: MaxSafeInteger, MaxHp: MaxSafeInteger, AttackDamage: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TransformCharacterData(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTransformCharacterDataIdempotent(t *testing.T) {
	in := raw(1, "NAMI", "https://i.imgur.com/WVAaMPA.png", 150, 200, 50)

	first, err := TransformCharacterData(in)
	if err != nil {
		t.Fatalf("first transform: %v", err)
	}
	second, err := TransformCharacterData(first.Raw())
	if err != nil {
		t.Fatalf("second transform: %v", err)
	}
	if first != second {
		t.Errorf("transform not idempotent: %+v != %+v", first, second)
	}

	again, _ := TransformCharacterData(in)
	if again != first {
		t.Errorf("transform not deterministic: %+v != %+v", again, first)
	}
}

func TestTransformCharacterDataUnsafe(t *testing.T) {
	tooBig := new(big.Int).Add(big.NewInt(MaxSafeInteger), big.NewInt(1))
	huge := new(big.Int).Lsh(big.NewInt(1), 255)

	tests := []struct {
		name string
		in   RawCharacter
	}{
		{"hp above safe", RawCharacter{CharacterIndex: big.NewInt(0), Hp: tooBig, MaxHp: big.NewInt(1), AttackDamage: big.NewInt(1)}},
		{"uint256 max hp", RawCharacter{CharacterIndex: big.NewInt(0), Hp: big.NewInt(1), MaxHp: huge, AttackDamage: big.NewInt(1)}},
		{"negative attack", RawCharacter{CharacterIndex: big.NewInt(0), Hp: big.NewInt(1), MaxHp: big.NewInt(1), AttackDamage: big.NewInt(-1)}},
		{"index above safe", RawCharacter{CharacterIndex: tooBig, Hp: big.NewInt(1), MaxHp: big.NewInt(1), AttackDamage: big.NewInt(1)}},
		{"nil hp", RawCharacter{MaxHp: big.NewInt(1), AttackDamage: big.NewInt(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TransformCharacterData(tt.in)
			if !errors.Is(err, ErrUnsafeInteger) {
				t.Errorf("expected ErrUnsafeInteger, got %v", err)
			}
		})
	}
}

func TestTransformCharacterDataMissingIndex(t *testing.T) {
	got, err := TransformCharacterData(RawCharacter{
		Name:         "CROCODILE",
		Hp:           big.NewInt(10000),
		MaxHp:        big.NewInt(10000),
		AttackDamage: big.NewInt(50),
	})
	if err != nil {
		t.Fatalf("missing index should not fail: %v", err)
	}
	if got.Index != 0 || got.Hp != 10000 {
		t.Errorf("unexpected character %+v", got)
	}
}

func TestTransformCharactersPreservesOrder(t *testing.T) {
	raws := []RawCharacter{
		raw(0, "ZORO", "a", 100, 100, 100),
		raw(1, "NAMI", "b", 200, 200, 50),
		raw(2, "USOPP", "c", 300, 300, 25),
	}

	got, err := TransformCharacters(raws)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(raws) {
		t.Fatalf("expected %d characters, got %d", len(raws), len(got))
	}
	for i, c := range got {
		if c.Name != raws[i].Name || c.Index != i {
			t.Errorf("position %d: got %+v", i, c)
		}
	}
}

func TestTransformCharactersStopsOnBadTuple(t *testing.T) {
	raws := []RawCharacter{
		raw(0, "ZORO", "a", 100, 100, 100),
		{Name: "broken"},
	}
	if _, err := TransformCharacters(raws); !errors.Is(err, ErrUnsafeInteger) {
		t.Errorf("expected ErrUnsafeInteger, got %v", err)
	}
}

func TestIsDefeated(t *testing.T) {
	if (Character{Hp: 1}).IsDefeated() {
		t.Error("hp 1 should not be defeated")
	}
	if !(Character{Hp: 0}).IsDefeated() {
		t.Error("hp 0 should be defeated")
	}
}
