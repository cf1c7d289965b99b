package domain

import "testing"

func TestRoleJoin(t *testing.T) {
	tests := []struct {
		name string
		from Role
		add  Role
		want Role
	}{
		{name: "buyer adds seller", from: RoleBuyer, add: RoleSeller, want: RoleBoth},
		{name: "seller adds buyer", from: RoleSeller, add: RoleBuyer, want: RoleBoth},
		{name: "buyer adds buyer", from: RoleBuyer, add: RoleBuyer, want: RoleBuyer},
		{name: "seller adds seller", from: RoleSeller, add: RoleSeller, want: RoleSeller},
		{name: "buyer adds both", from: RoleBuyer, add: RoleBoth, want: RoleBoth},
		{name: "both adds buyer", from: RoleBoth, add: RoleBuyer, want: RoleBoth},
		{name: "both adds seller", from: RoleBoth, add: RoleSeller, want: RoleBoth},
		{name: "both adds both", from: RoleBoth, add: RoleBoth, want: RoleBoth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.Join(tt.add); got != tt.want {
				t.Fatalf("%s.Join(%s) = %s, want %s", tt.from, tt.add, got, tt.want)
			}
		})
	}
}

func TestRoleJoin_NeverLosesCapability(t *testing.T) {
	roles := []Role{RoleBuyer, RoleSeller, RoleBoth}
	for _, from := range roles {
		for _, add := range roles {
			joined := from.Join(add)
			if !joined.Covers(from) {
				t.Fatalf("%s.Join(%s) = %s lost capability of %s", from, add, joined, from)
			}
			if !joined.Covers(add) {
				t.Fatalf("%s.Join(%s) = %s does not cover %s", from, add, joined, add)
			}
		}
	}
}

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role   Role
		seller bool
		buyer  bool
		valid  bool
	}{
		{role: RoleBuyer, seller: false, buyer: true, valid: true},
		{role: RoleSeller, seller: true, buyer: false, valid: true},
		{role: RoleBoth, seller: true, buyer: true, valid: true},
		{role: Role("admin"), seller: false, buyer: false, valid: false},
	}

	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			if got := tc.role.IsSeller(); got != tc.seller {
				t.Errorf("IsSeller() = %v, want %v", got, tc.seller)
			}
			if got := tc.role.IsBuyer(); got != tc.buyer {
				t.Errorf("IsBuyer() = %v, want %v", got, tc.buyer)
			}
			if got := tc.role.Valid(); got != tc.valid {
				t.Errorf("Valid() = %v, want %v", got, tc.valid)
			}
		})
	}
}
