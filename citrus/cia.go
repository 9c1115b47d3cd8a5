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
 *  cia.go - CTR Importable Archive format. Sols interessa localitzar
 *           els continguts NCCH que llista el TMD; els certificats i
 *           el ticket es boten.
 */

package citrus

import (
  "fmt"

  "github.com/adriagipas/ctrvfs/utils"
)


/*********/
/* TIPUS */
/*********/

const _CIA_HEADER_SIZE= 0x2020

// Categoria de títol (bits 32-47 del Title ID) dels continguts
// descarregables.
const _TITLE_CATEGORY_DLC= 0x008c

type CIA_Content struct {

  ID     uint32
  Index  uint16
  Type   uint16
  Offset int64 // Respecte l'inici de la imatge
  Size   int64

}

type CIA struct {

  TitleID      uint64
  TitleVersion uint16
  Contents     []CIA_Content

  acc utils.Accessor

}


/************/
/* FUNCIONS */
/************/

// Torna cert si l'accessor comença amb una capçalera CIA plausible.
// El CIA no té número màgic: es comprova la grandària de la capçalera
// i que les seccions càpien en la imatge.
func ProbeCIA( acc utils.Accessor ) bool {

  if acc.Len () < _CIA_HEADER_SIZE { return false }
  header_len,err:= utils.ReadU32 ( acc, 0 )
  if err != nil || header_len != _CIA_HEADER_SIZE { return false }
  certs_len,err:= utils.ReadU32 ( acc, 0x8 )
  if err != nil { return false }
  ticket_len,err:= utils.ReadU32 ( acc, 0xc )
  if err != nil { return false }
  tmd_len,err:= utils.ReadU32 ( acc, 0x10 )
  if err != nil { return false }
  content_len,err:= utils.ReadU64 ( acc, 0x18 )
  if err != nil { return false }

  if ticket_len == 0 || tmd_len == 0 { return false }
  total:= utils.AlignUp ( _CIA_HEADER_SIZE, 0x40 )
  total= utils.AlignUp ( total + int64(certs_len), 0x40 )
  total= utils.AlignUp ( total + int64(ticket_len), 0x40 )
  total= utils.AlignUp ( total + int64(tmd_len), 0x40 )

  return total + int64(content_len) <= acc.Len ()

} // end ProbeCIA


// Llig el TMD i ompli la llista de continguts. tmd_acc és la finestra
// del TMD; content_offset és l'offset de la regió de continguts en la
// imatge.
func (self *CIA) readTMD( tmd_acc utils.Accessor,
  content_offset int64 ) error {

  // Tipus de signatura. Sols es suporta RSA-2048 amb SHA-256, que és
  // l'únic que genera Nintendo.
  var buf [4]byte
  if err:= tmd_acc.Read ( buf[:], 0 ); err != nil {
    return fmt.Errorf ( "Error while reading CIA TMD: %w", err )
  }
  sig_type:= (uint32(buf[0])<<24) |
    (uint32(buf[1])<<16) |
    (uint32(buf[2])<<8) |
    uint32(buf[3])
  if sig_type != 0x10004 {
    return fmt.Errorf ( "Error while reading CIA TMD: unsupported signature"+
      " type (%08x): %w", sig_type, utils.ErrInvalidFormat )
  }

  // Capçalera del TMD (després de la signatura i el seu padding).
  var header [0xc4]byte
  if err:= tmd_acc.Read ( header[:], 0x140 ); err != nil {
    return fmt.Errorf ( "Error while reading CIA TMD header: %w", err )
  }
  self.TitleID= (uint64(header[0x4c])<<56) |
    (uint64(header[0x4d])<<48) |
    (uint64(header[0x4e])<<40) |
    (uint64(header[0x4f])<<32) |
    (uint64(header[0x50])<<24) |
    (uint64(header[0x51])<<16) |
    (uint64(header[0x52])<<8) |
    uint64(header[0x53])
  self.TitleVersion= (uint16(header[0x9c])<<8) | uint16(header[0x9d])
  content_count:= (int(header[0x9e])<<8) | int(header[0x9f])

  // Registres dels continguts (després dels content info records).
  // Tots els camps són big-endian.
  records:= make([]byte,0x30*content_count)
  if err:= tmd_acc.Read ( records, 0xb04 ); err != nil {
    return fmt.Errorf ( "Error while reading CIA TMD content chunk"+
      " records: %w", err )
  }
  offset:= content_offset
  self.Contents= make([]CIA_Content,0,content_count)
  for i:= 0; i < content_count; i++ {

    mem:= records[i*0x30:(i+1)*0x30]
    content:= CIA_Content{
      ID: (uint32(mem[0])<<24) |
        (uint32(mem[1])<<16) |
        (uint32(mem[2])<<8) |
        uint32(mem[3]),
      Index: (uint16(mem[4])<<8) | uint16(mem[5]),
      Type: (uint16(mem[6])<<8) | uint16(mem[7]),
      Offset: offset,
      Size: int64((uint64(mem[8])<<56) |
        (uint64(mem[9])<<48) |
        (uint64(mem[10])<<40) |
        (uint64(mem[11])<<32) |
        (uint64(mem[12])<<24) |
        (uint64(mem[13])<<16) |
        (uint64(mem[14])<<8) |
        uint64(mem[15])),
    }
    if content.Offset+content.Size > self.acc.Len () {
      return fmt.Errorf ( "Error while reading CIA TMD: content %d"+
        " ([%d,%d[) is out of image boundaries ([0,%d[): %w",
        i, content.Offset, content.Offset+content.Size, self.acc.Len (),
        utils.ErrInvalidFormat )
    }
    self.Contents= append(self.Contents,content)
    offset+= content.Size

  }

  return nil

} // end CIA.readTMD


func NewCIA( acc utils.Accessor ) (*CIA,error) {

  // Llig les grandàries de les seccions.
  header_len,err:= utils.ReadU32 ( acc, 0 )
  if err != nil {
    return nil,fmt.Errorf ( "Error while reading CIA header: %w", err )
  }
  if header_len != _CIA_HEADER_SIZE {
    return nil,fmt.Errorf ( "Error while reading CIA header: header length"+
      " must be %d, got %d: %w", _CIA_HEADER_SIZE, header_len,
      utils.ErrInvalidFormat )
  }
  certs_len,err:= utils.ReadU32 ( acc, 0x8 )
  if err != nil { return nil,err }
  ticket_len,err:= utils.ReadU32 ( acc, 0xc )
  if err != nil { return nil,err }
  tmd_len,err:= utils.ReadU32 ( acc, 0x10 )
  if err != nil { return nil,err }

  // Localitza les seccions. Totes comencen alineades a 0x40.
  certs_offset:= utils.AlignUp ( int64(header_len), 0x40 )
  ticket_offset:= utils.AlignUp ( certs_offset + int64(certs_len), 0x40 )
  tmd_offset:= utils.AlignUp ( ticket_offset + int64(ticket_len), 0x40 )
  content_offset:= utils.AlignUp ( tmd_offset + int64(tmd_len), 0x40 )

  // Inicialitza.
  ret:= CIA{
    acc: acc,
  }
  tmd_acc,err:= utils.Slice ( acc, tmd_offset, int64(tmd_len) )
  if err != nil {
    return nil,fmt.Errorf ( "Error while reading CIA header: TMD section"+
      " is out of image boundaries: %w", err )
  }
  if err:= ret.readTMD ( tmd_acc, content_offset ); err != nil {
    return nil,err
  }

  return &ret,nil

} // end NewCIA


// Torna cert si el títol és un contingut descarregable.
func (self *CIA) IsDLC() bool {
  return uint16((self.TitleID>>32)&0xFFFF) == _TITLE_CATEGORY_DLC
} // end IsDLC


// Torna l'accessor del contingut i-éssim.
func (self *CIA) OpenContent( index int ) (utils.Accessor,error) {

  c:= &self.Contents[index]

  return utils.Slice ( self.acc, c.Offset, c.Size )

} // end OpenContent
