/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  nds.go - Imatge de cartutx de Nintendo DS.
 */

package nitro

import (
  "fmt"

  "github.com/adriagipas/ctrvfs/utils"
)


/*********/
/* TIPUS */
/*********/

// Número màgic que marca la presència del peu de l'ARM9. Quan apareix
// just després de l'ARM9 el binari s'estén 12 bytes.
const ARM9_FOOTER_MAGIC= 0x2106C0DE

type NDS struct {

  Header   NDSHeader
  FAT      []FAT_Entry
  FNT      *FNT
  Overlay9 []NDS_Overlay
  Overlay7 []NDS_Overlay

  acc utils.Accessor

}


/************/
/* FUNCIONS */
/************/

// Torna cert si l'accessor sembla un cartutx DS. El format no té
// número màgic: es comprova el checksum de la capçalera.
func ProbeNDS( acc utils.Accessor ) bool {

  if acc.Len () < HEADER_SIZE { return false }
  var buf [0x160]byte
  if err:= acc.Read ( buf[:], 0 ); err != nil { return false }
  checksum:= uint16(buf[0x15e]) | (uint16(buf[0x15f])<<8)

  return crc16 ( buf[:0x15e] ) == checksum

} // end ProbeNDS


func NewNDS( acc utils.Accessor ) (*NDS,error) {

  // Inicialitza
  ret:= NDS{
    acc: acc,
  }

  // Llig capçalera i taules.
  if err:= ret.Header.Read ( acc ); err != nil {
    return nil,err
  }
  var err error
  if ret.FAT,err= parseFAT ( acc, ret.Header.FAT ); err != nil {
    return nil,err
  }
  if ret.FNT,err= parseFNT ( acc, ret.Header.FNT ); err != nil {
    return nil,err
  }
  if ret.Overlay9,err= parseOverlayTable ( acc,
    ret.Header.Arm9Overlay ); err != nil {
    return nil,err
  }
  if ret.Overlay7,err= parseOverlayTable ( acc,
    ret.Header.Arm7Overlay ); err != nil {
    return nil,err
  }

  return &ret,nil

} // end NewNDS


// Torna un accessor amb la capçalera. És el contingut de /header.bin.
func (self *NDS) HeaderBytes() (utils.Accessor,error) {
  return utils.Slice ( self.acc, 0, HEADER_SIZE )
} // end HeaderBytes


// Torna el binari ARM9. Si just després del binari apareix el número
// màgic del peu, s'inclouen els 12 bytes del peu.
func (self *NDS) Arm9() (utils.Accessor,error) {

  size:= self.Header.Arm9.Size
  end:= self.Header.Arm9.Offset + size
  if magic,err:= utils.ReadU32 ( self.acc, end ); err == nil &&
    magic == ARM9_FOOTER_MAGIC && end+12 <= self.acc.Len () {
    size+= 12
  }

  return utils.Slice ( self.acc, self.Header.Arm9.Offset, size )

} // end Arm9


func (self *NDS) Arm7() (utils.Accessor,error) {
  return utils.Slice ( self.acc, self.Header.Arm7.Offset,
    self.Header.Arm7.Size )
} // end Arm7


// Taula d'overlays de l'ARM9 en cru. És el contingut de /y9.bin. Si
// no en té torna nil sense error.
func (self *NDS) Y9() (utils.Accessor,error) {
  if self.Header.Arm9Overlay.Size == 0 { return nil,nil }
  return utils.Slice ( self.acc, self.Header.Arm9Overlay.Offset,
    self.Header.Arm9Overlay.Size )
} // end Y9


// Com Y9 però per a l'ARM7.
func (self *NDS) Y7() (utils.Accessor,error) {
  if self.Header.Arm7Overlay.Size == 0 { return nil,nil }
  return utils.Slice ( self.acc, self.Header.Arm7Overlay.Offset,
    self.Header.Arm7Overlay.Size )
} // end Y7


// Obri el fitxer associat a una entrada de la FAT.
func (self *NDS) OpenFile( id uint16 ) (utils.Accessor,error) {

  if int(id) >= len(self.FAT) {
    return nil,fmt.Errorf ( "File identifier %d is out of FAT"+
      " boundaries [0,%d[: %w", id, len(self.FAT), utils.ErrNotFound )
  }
  entry:= self.FAT[id]

  return utils.Slice ( self.acc, entry.Start, entry.End-entry.Start )

} // end OpenFile


// Obri el fitxer associat a un overlay.
func (self *NDS) OpenOverlay( ov *NDS_Overlay ) (utils.Accessor,error) {

  if ov.FileID >= uint32(len(self.FAT)) {
    return nil,fmt.Errorf ( "Overlay file identifier %d is out of FAT"+
      " boundaries [0,%d[: %w", ov.FileID, len(self.FAT),
      utils.ErrNotFound )
  }
  entry:= self.FAT[ov.FileID]

  return utils.Slice ( self.acc, entry.Start, entry.End-entry.Start )

} // end OpenOverlay
